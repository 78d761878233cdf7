package scheduling

import (
	"math/rand"
	"testing"

	"github.com/MaxHalford/eaopt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenome struct {
	tag int
}

func (g *stubGenome) Evaluate() (float64, error)                  { return 0, nil }
func (g *stubGenome) Mutate(rng *rand.Rand)                       {}
func (g *stubGenome) Crossover(other eaopt.Genome, rng *rand.Rand) {}
func (g *stubGenome) Clone() eaopt.Genome                          { return &stubGenome{tag: g.tag} }

var _ eaopt.Genome = (*stubGenome)(nil)

func TestApplyElitismReplacesWorstIndividuals(t *testing.T) {
	ga := &eaopt.GA{
		Populations: eaopt.Populations{
			{
				Individuals: eaopt.Individuals{
					{Genome: &stubGenome{tag: 1}, Fitness: 5, Evaluated: true},
					{Genome: &stubGenome{tag: 2}, Fitness: 1, Evaluated: true},
					{Genome: &stubGenome{tag: 3}, Fitness: 9, Evaluated: true},
				},
			},
		},
		HallOfFame: eaopt.Individuals{
			{Genome: &stubGenome{tag: 99}, Fitness: 0, Evaluated: true},
		},
	}

	applyElitism(ga, 2)

	pop := ga.Populations[0].Individuals
	require.Len(t, pop, 3)

	var eliteCount int
	for _, ind := range pop {
		if g, ok := ind.Genome.(*stubGenome); ok && g.tag == 99 {
			eliteCount++
			assert.Equal(t, ga.HallOfFame[0].Fitness, ind.Fitness)
		}
	}
	assert.Equal(t, 2, eliteCount, "the two worst individuals (fitness 5 and 9) should be replaced by elite clones")

	// The best original individual (fitness 1) must survive untouched.
	var survivedBest bool
	for _, ind := range pop {
		if g, ok := ind.Genome.(*stubGenome); ok && g.tag == 2 {
			survivedBest = true
		}
	}
	assert.True(t, survivedBest)
}

func TestApplyElitismNoopWhenElitismCountZero(t *testing.T) {
	ga := &eaopt.GA{
		Populations: eaopt.Populations{
			{Individuals: eaopt.Individuals{{Genome: &stubGenome{tag: 1}, Fitness: 5, Evaluated: true}}},
		},
		HallOfFame: eaopt.Individuals{{Genome: &stubGenome{tag: 99}, Fitness: 0, Evaluated: true}},
	}

	applyElitism(ga, 0)

	g, ok := ga.Populations[0].Individuals[0].Genome.(*stubGenome)
	require.True(t, ok)
	assert.Equal(t, 1, g.tag)
}
