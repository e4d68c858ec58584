package backtest

import (
	"context"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/lineup-engine/internal/optimizer"
	"github.com/stitts-dev/lineup-engine/internal/scoring"
	"github.com/stitts-dev/lineup-engine/internal/simulator"
	"github.com/stitts-dev/lineup-engine/pkg/logger"
	"github.com/stitts-dev/lineup-engine/pkg/types"
)

// Task backtests one strategy in one contest configuration.
type Task struct {
	Strategy   string            `mapstructure:"strategy"`
	Contest    simulator.Contest `mapstructure:"contest"`
	Iterations int               `mapstructure:"iterations"`
	Seed       uint64            `mapstructure:"seed"`
}

// Report is the outcome of one Task. Err is set when the task could
// not produce a lineup or a field; the series is zero-valued then.
type Report struct {
	Task   Task
	Lineup types.Lineup
	Series simulator.SeriesResult
	Err    error
}

// Runner executes backtest tasks across a worker pool. Each worker
// scores a private copy of the pool, so tasks never observe each
// other's strategy mutations.
type Runner struct {
	pool        []types.Player
	rules       types.RosterRules
	composer    *scoring.Composer
	solver      optimizer.Options
	scoreParams simulator.ScoreParams
	workers     int
	log         *logrus.Entry
}

// NewRunner builds a runner; workers <= 0 selects NumCPU.
func NewRunner(pool []types.Player, rules types.RosterRules, composer *scoring.Composer,
	solver optimizer.Options, scoreParams simulator.ScoreParams, workers int) *Runner {

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{
		pool:        types.NormalizePool(pool),
		rules:       rules,
		composer:    composer,
		solver:      solver,
		scoreParams: scoreParams,
		workers:     workers,
		log:         logger.WithComponent("backtest"),
	}
}

// Run executes all tasks and returns reports in task order. A
// cancelled context marks the remaining tasks with ctx.Err().
func (r *Runner) Run(ctx context.Context, tasks []Task) []Report {
	reports := make([]Report, len(tasks))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			workerPool := append([]types.Player(nil), r.pool...)
			for idx := range jobs {
				reports[idx] = r.runTask(ctx, workerPool, tasks[idx])
			}
		}()
	}

	for i := range tasks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	r.log.WithFields(logrus.Fields{
		"tasks":   len(tasks),
		"workers": r.workers,
	}).Info("Backtest run complete")

	return reports
}

func (r *Runner) runTask(ctx context.Context, pool []types.Player, task Task) Report {
	report := Report{Task: task}
	if err := ctx.Err(); err != nil {
		report.Err = err
		return report
	}

	r.composer.Compose(pool, task.Strategy, task.Contest.Type)

	lineup, err := optimizer.Solve(pool, r.rules, r.solver)
	if err != nil {
		report.Err = err
		return report
	}
	report.Lineup = *lineup

	gen, err := simulator.NewFieldGenerator(pool, r.rules, task.Seed)
	if err != nil {
		report.Err = err
		return report
	}
	field, err := gen.Generate(task.Contest.Type, task.Contest.FieldSize)
	if err != nil {
		report.Err = err
		return report
	}

	model := simulator.NewScoreModel(r.scoreParams, task.Seed+1)
	cs := simulator.NewContestSimulator(task.Contest, field, model)
	report.Series = cs.RunSeries(lineup, task.Iterations)

	logger.WithOptimizationContext(lineup.ID, task.Strategy, string(task.Contest.Type)).
		WithFields(logrus.Fields{
			"component":  "backtest",
			"field_size": task.Contest.FieldSize,
			"mean_roi":   report.Series.MeanROI,
		}).Debug("Backtest task finished")

	return report
}
