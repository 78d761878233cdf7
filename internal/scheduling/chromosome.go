package scheduling

import (
	"math/rand"

	"github.com/MaxHalford/eaopt"
)

// sentinelID marks a gene whose candidate set was empty at initialization
// time. Fitness treats any sentinel occurrence as an infeasibility but the
// run still completes.
const sentinelID int64 = 0

// Gene is one lesson assignment: a (teacherId, roomId, timeSlotId) triple.
// classId and subjectId are fixed by the gene's position in the chromosome,
// carried alongside in the parallel Demand slice rather than the gene
// itself, so crossover and mutation never need to touch them.
type Gene struct {
	TeacherID  int64
	RoomID     int64
	TimeSlotID int64
}

// Chromosome is an ordered sequence of genes in one-to-one positional
// correspondence with a Demand list. Its length never changes across
// initialization, crossover, or mutation.
type Chromosome []Gene

func (c Chromosome) clone() Chromosome {
	out := make(Chromosome, len(c))
	copy(out, c)
	return out
}

// scheduleGenome adapts a Chromosome to eaopt.Genome. demand, candidates,
// and evaluator are shared, read-only context every genome in a run carries
// a pointer to; only genes is ever mutated.
type scheduleGenome struct {
	genes      Chromosome
	demand     []Demand
	candidates *CandidateSets
	params     fitnessParams
	evaluator  *fitnessEvaluator

	// fitness caches the domain-facing (higher-is-better) score from the
	// most recent Evaluate call.
	fitness float64
}

var _ eaopt.Genome = (*scheduleGenome)(nil)

// Clone returns an independent copy sharing the same demand/candidate context.
func (g *scheduleGenome) Clone() eaopt.Genome {
	return &scheduleGenome{
		genes:      g.genes.clone(),
		demand:     g.demand,
		candidates: g.candidates,
		params:     g.params,
		evaluator:  g.evaluator,
	}
}

// Crossover performs single-point crossover in place, turning g into one of
// the two children produced against other.
func (g *scheduleGenome) Crossover(other eaopt.Genome, rng *rand.Rand) {
	mate := other.(*scheduleGenome)
	singlePointCrossover(g.genes, mate.genes, rng)
}

// Mutate applies one of the four mutation kinds in place.
func (g *scheduleGenome) Mutate(rng *rand.Rand) {
	mutate(g.genes, g.demand, g.candidates, rng)
}

// Evaluate scores the genome; eaopt minimizes, so this returns the inverse
// of the domain's higher-is-better fitness (base 1000 minus penalties).
// When evaluator is set, scoring runs through its worker-pool queue rather
// than inline, so a run's real evaluation concurrency is bounded by the
// queue regardless of how many genomes eaopt evaluates at once.
func (g *scheduleGenome) Evaluate() (float64, error) {
	if g.evaluator != nil {
		g.fitness = g.evaluator.evaluate(g.genes, g.demand, g.candidates, g.params)
	} else {
		g.fitness = Fitness(g.genes, g.demand, g.candidates, g.params)
	}
	return -g.fitness, nil
}

// newScheduleGenome builds a genome by uniformly sampling each gene's
// teacher/room/time slot from its candidate set, substituting the sentinel
// id when a set is empty (per-demand infeasibility, not a run failure).
func newScheduleGenome(demand []Demand, candidates *CandidateSets, params fitnessParams, evaluator *fitnessEvaluator, rng *rand.Rand) *scheduleGenome {
	genes := make(Chromosome, len(demand))
	slots := candidates.AllTimeSlotIDs()
	for i, d := range demand {
		teachers := candidates.TeachersFor(d.SubjectID)
		rooms := candidates.RoomsFor(d.SubjectID, candidates.ClassDepartment(d.ClassID))

		genes[i] = Gene{
			TeacherID:  pickOne(teachers, rng),
			RoomID:     pickOne(rooms, rng),
			TimeSlotID: pickOne(slots, rng),
		}
	}
	return &scheduleGenome{genes: genes, demand: demand, candidates: candidates, params: params, evaluator: evaluator}
}

func pickOne(ids []int64, rng *rand.Rand) int64 {
	if len(ids) == 0 {
		return sentinelID
	}
	return ids[rng.Intn(len(ids))]
}
