package scheduling

import (
	"context"
	"math/rand"
	"runtime"
	"time"

	"github.com/MaxHalford/eaopt"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// Result is the outcome of one completed or cancelled generation run.
type Result struct {
	Best           Chromosome
	Demand         []Demand
	BestFitness    float64
	GenerationsRun int
	Cancelled      bool
	FitnessHistory []float64
}

func rngSeed() int64 {
	return time.Now().UnixNano()
}

// ProgressFunc is invoked once per completed generation, never retrograde.
// Implementations must not block the caller for long; the generation loop
// waits for it to return before starting the next generation.
type ProgressFunc func(generation, total int, bestFitness float64, fitnessHistory []float64)

// Run drives the generation loop through eaopt.GA: selection, crossover,
// and mutation are eaopt's ModGenerational model, itself configured with
// tournament selection, while elitism, progress reporting, and cooperative
// cancellation are layered on top through ga.Callback/ga.EarlyStop, since
// eaopt's generational model doesn't carry elitism and has no cancellation
// hook of its own.
func Run(ctx context.Context, demand []Demand, candidates *CandidateSets, gaParams models.GAParams, report ProgressFunc) Result {
	params := newFitnessParams(gaParams)

	conf := eaopt.NewDefaultGAConfig()
	conf.NPops = 1
	conf.PopSize = uint(gaParams.PopulationSize)
	conf.NGenerations = uint(gaParams.GenerationCount)
	conf.HofSize = 1
	conf.ParallelEval = true
	conf.RNG = rand.New(rand.NewSource(rngSeed()))
	conf.Model = eaopt.ModGenerational{
		Selector: eaopt.SelTournament{NContestants: uint(gaParams.TournamentSize)},
		MutRate:  gaParams.MutationRate,
		CrossRate: gaParams.CrossoverRate,
	}

	var fitnessHistory []float64
	cancelled := false

	conf.EarlyStop = func(ga *eaopt.GA) bool {
		select {
		case <-ctx.Done():
			cancelled = true
			return true
		default:
			return false
		}
	}

	conf.Callback = func(ga *eaopt.GA) {
		applyElitism(ga, gaParams.ElitismCount)
		best := -ga.HallOfFame[0].Fitness
		fitnessHistory = append(fitnessHistory, best)
		if report != nil {
			report(int(ga.Generations), gaParams.GenerationCount, best, append([]float64(nil), fitnessHistory...))
		}
	}

	ga, err := conf.NewGA()
	if err != nil {
		return Result{Demand: demand, Cancelled: true}
	}

	evaluator := newFitnessEvaluator(runtime.GOMAXPROCS(0))
	defer evaluator.close()

	factory := func(rng *rand.Rand) eaopt.Genome {
		return newScheduleGenome(demand, candidates, params, evaluator, rng)
	}

	if err := ga.Minimize(factory); err != nil {
		return Result{Demand: demand, Cancelled: cancelled}
	}

	best := ga.HallOfFame[0].Genome.(*scheduleGenome).genes.clone()
	bestFitness := -ga.HallOfFame[0].Fitness

	return Result{
		Best:           best,
		Demand:         demand,
		BestFitness:    bestFitness,
		GenerationsRun: int(ga.Generations),
		Cancelled:      cancelled,
		FitnessHistory: fitnessHistory,
	}
}

// applyElitism replaces the current population's worst individuals with
// fresh clones of the hall of fame's best, so a generation's strongest
// genome always survives selection pressure and mutation into the next one.
func applyElitism(ga *eaopt.GA, elitismCount int) {
	if elitismCount <= 0 || len(ga.HallOfFame) == 0 || len(ga.Populations) == 0 {
		return
	}
	pop := ga.Populations[0].Individuals
	if elitismCount > len(pop) {
		elitismCount = len(pop)
	}
	elite := ga.HallOfFame[0]

	replaced := make(map[int]bool, elitismCount)
	for i := 0; i < elitismCount; i++ {
		worst := -1
		for j := range pop {
			if replaced[j] {
				continue
			}
			if worst == -1 || pop[j].Fitness > pop[worst].Fitness {
				worst = j
			}
		}
		if worst == -1 {
			return
		}
		replaced[worst] = true
		pop[worst] = eaopt.Individual{Genome: elite.Genome.Clone(), Fitness: elite.Fitness, Evaluated: true}
	}
}
