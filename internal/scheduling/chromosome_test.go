package scheduling

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

func smallFixture() ([]Demand, *CandidateSets) {
	pool := &ResourcePool{
		Classes:   []models.Class{{ID: 1, DepartmentID: 1}, {ID: 2, DepartmentID: 1}},
		Teachers:  []models.Teacher{{ID: 10}, {ID: 11}},
		Subjects:  []models.Subject{{ID: 1}},
		Rooms:     []models.Room{{ID: 1}, {ID: 2}},
		TimeSlots: []models.TimeSlot{{ID: 100}, {ID: 101}, {ID: 102}},
		TeacherSubjects: []models.TeacherSubject{
			{TeacherID: 10, SubjectID: 1},
			{TeacherID: 11, SubjectID: 1},
		},
	}
	candidates := BuildCandidateSets(pool)
	demand := []Demand{
		{ClassID: 1, SubjectID: 1},
		{ClassID: 1, SubjectID: 1},
		{ClassID: 2, SubjectID: 1},
	}
	return demand, candidates
}

func TestNewScheduleGenomeChromosomeLengthMatchesDemand(t *testing.T) {
	demand, candidates := smallFixture()
	rng := rand.New(rand.NewSource(1))
	params := fitnessParams{hard: allHardFlags()}

	genome := newScheduleGenome(demand, candidates, params, nil, rng)
	assert.Len(t, genome.genes, len(demand))
}

func TestScheduleGenomeCloneIsIndependent(t *testing.T) {
	demand, candidates := smallFixture()
	rng := rand.New(rand.NewSource(1))
	params := fitnessParams{hard: allHardFlags()}

	original := newScheduleGenome(demand, candidates, params, nil, rng)
	clone := original.Clone().(*scheduleGenome)

	clone.genes[0].TeacherID = 999
	assert.NotEqual(t, original.genes[0].TeacherID, clone.genes[0].TeacherID)
	assert.Len(t, clone.genes, len(original.genes))
}

func TestScheduleGenomeCrossoverPreservesLength(t *testing.T) {
	demand, candidates := smallFixture()
	rng := rand.New(rand.NewSource(2))
	params := fitnessParams{hard: allHardFlags()}

	a := newScheduleGenome(demand, candidates, params, nil, rng)
	b := newScheduleGenome(demand, candidates, params, nil, rng)

	a.Crossover(b, rng)
	assert.Len(t, a.genes, len(demand))
	assert.Len(t, b.genes, len(demand))
}

func TestScheduleGenomeEvaluateWithoutEvaluatorMatchesDirectFitness(t *testing.T) {
	demand, candidates := smallFixture()
	rng := rand.New(rand.NewSource(3))
	params := fitnessParams{hard: allHardFlags()}

	genome := newScheduleGenome(demand, candidates, params, nil, rng)
	score, err := genome.Evaluate()
	require.NoError(t, err)

	want := -Fitness(genome.genes, demand, candidates, params)
	assert.Equal(t, want, score)
}

func TestScheduleGenomeEvaluateThroughEvaluatorMatchesDirectFitness(t *testing.T) {
	demand, candidates := smallFixture()
	rng := rand.New(rand.NewSource(4))
	params := fitnessParams{hard: allHardFlags()}

	evaluator := newFitnessEvaluator(2)
	defer evaluator.close()

	genome := newScheduleGenome(demand, candidates, params, evaluator, rng)
	score, err := genome.Evaluate()
	require.NoError(t, err)

	want := -Fitness(genome.genes, demand, candidates, params)
	assert.Equal(t, want, score)
}
