package scheduling

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/pkg/jobs"
)

// fitnessJob carries one genome's scoring context through the queue and a
// channel to deliver its result back to the blocked caller.
type fitnessJob struct {
	genes      Chromosome
	demand     []Demand
	candidates *CandidateSets
	params     fitnessParams
	result     chan float64
}

// fitnessEvaluator scores genomes through the same worker-pool queue the
// rest of the application uses for background work. One evaluator backs an
// entire generation run: eaopt.GA calls a genome's Evaluate method directly,
// however many at a time its own scheduling chooses, and Evaluate hands the
// work to this queue and blocks for the answer — so no matter how eaopt
// calls in, real concurrency is bounded by the queue's worker count rather
// than left to ad hoc goroutines. MaxRetries is 0: a fitness evaluation is a
// pure function of its genes and never benefits from a retry.
type fitnessEvaluator struct {
	queue *jobs.Queue
}

// newFitnessEvaluator starts a queue with workers concurrent evaluators.
func newFitnessEvaluator(workers int) *fitnessEvaluator {
	if workers < 1 {
		workers = 1
	}
	e := &fitnessEvaluator{}
	e.queue = jobs.NewQueue("ga-fitness-eval", func(_ context.Context, job jobs.Job) error {
		fj := job.Payload.(*fitnessJob)
		fj.result <- Fitness(fj.genes, fj.demand, fj.candidates, fj.params)
		return nil
	}, jobs.QueueConfig{
		Workers:    workers,
		BufferSize: workers * 4,
		MaxRetries: 0,
		Logger:     zap.NewNop(),
	})
	e.queue.Start(context.Background())
	return e
}

// evaluate scores one genome, blocking until the queue has processed it. If
// the queue's buffer is full and Enqueue itself fails, it falls back to
// scoring inline rather than losing the generation over backpressure.
func (e *fitnessEvaluator) evaluate(genes Chromosome, demand []Demand, candidates *CandidateSets, params fitnessParams) float64 {
	fj := &fitnessJob{genes: genes, demand: demand, candidates: candidates, params: params, result: make(chan float64, 1)}
	job := jobs.Job{ID: fmt.Sprintf("genome-%p", fj), Type: "evaluate", Payload: fj}
	if err := e.queue.Enqueue(job); err != nil {
		return Fitness(genes, demand, candidates, params)
	}
	return <-fj.result
}

// close stops the evaluator's queue. Safe to call once per evaluator.
func (e *fitnessEvaluator) close() {
	e.queue.Stop()
}
