package cli

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/bitfold/activetime/config"
	"github.com/bitfold/activetime/database"
	"github.com/bitfold/activetime/logger"
	"github.com/bitfold/activetime/metrics"
	"github.com/bitfold/activetime/parser"
	"github.com/bitfold/activetime/pool"
	"github.com/bitfold/activetime/schedule"
	"github.com/bitfold/activetime/scheduler"
)

type schedulerFunc func(p pool.AbstractPool, g int, tolerance float64) (schedule.Schedule, error)

var schedulers = map[string]schedulerFunc{
	"bruteforce": func(p pool.AbstractPool, g int, _ float64) (schedule.Schedule, error) {
		return scheduler.BruteForceScheduler{}.Process(p, g)
	},
	"lazy": func(p pool.AbstractPool, g int, _ float64) (schedule.Schedule, error) {
		return scheduler.LazyActivationSchedulerT{}.Process(p, g)
	},
	"lazy-nlogn": func(p pool.AbstractPool, g int, _ float64) (schedule.Schedule, error) {
		return scheduler.LazyActivationSchedulerNLogN{}.Process(p, g)
	},
	"greedy": func(p pool.AbstractPool, g int, _ float64) (schedule.Schedule, error) {
		return scheduler.GreedyScheduler{}.Process(p, g)
	},
	"greedy-intervals": func(p pool.AbstractPool, g int, _ float64) (schedule.Schedule, error) {
		return scheduler.GreedyIntervalsScheduler{}.Process(p, g)
	},
	"batch": func(p pool.AbstractPool, g int, _ float64) (schedule.Schedule, error) {
		fixed, ok := p.(*pool.FixedLengthJobPool)
		if !ok {
			return schedule.Schedule{}, errors.Wrap(scheduler.ErrUnsupportedPool, "batch needs a fixed_length pool")
		}
		return scheduler.BatchScheduler{}.Process(fixed, g)
	},
	"matching": func(p pool.AbstractPool, _ int, _ float64) (schedule.Schedule, error) {
		return scheduler.MatchingScheduler{}.Process(p)
	},
	"dcs": func(p pool.AbstractPool, _ int, _ float64) (schedule.Schedule, error) {
		return scheduler.DegreeConstrainedSubgraphScheduler{}.Process(p)
	},
	"udcs": func(p pool.AbstractPool, _ int, _ float64) (schedule.Schedule, error) {
		return scheduler.UpperDegreeConstrainedSubgraphScheduler{}.Process(p)
	},
	"lp": func(p pool.AbstractPool, g int, tolerance float64) (schedule.Schedule, error) {
		return scheduler.LinearProgrammingRoundedScheduler{Tolerance: tolerance}.Process(p, g)
	},
}

// SchedulerNames lists the scheduler names accepted on the command line.
func SchedulerNames() []string {
	names := make([]string, 0, len(schedulers))
	for name := range schedulers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPool reads the job file named by args, applies the filter, and builds
// the pool.
func LoadPool(args CLIArgs) (pool.AbstractPool, string, error) {
	if args.JobsPath == "" {
		return nil, "", errors.New("no job file given")
	}

	var file *parser.JobFile
	switch args.Format {
	case "csv":
		specs, err := parser.ParseCSV(args.JobsPath)
		if err != nil {
			return nil, "", err
		}
		file = &parser.JobFile{Kind: parser.KindInterval, Jobs: specs}
	default:
		loaded, err := parser.LoadJobFile(args.JobsPath)
		if err != nil {
			return nil, "", err
		}
		file = loaded
	}

	if args.Filter != "" {
		kept, err := parser.Filter(file.Jobs, args.Filter)
		if err != nil {
			return nil, "", err
		}
		file.Jobs = kept
	}

	built, err := file.BuildPool()
	if err != nil {
		return nil, "", err
	}
	return built, file.Kind, nil
}

// RunOnce executes the load/filter/schedule pipeline once, logs the outcome,
// and records it in the run store when one is configured.
func RunOnce(args CLIArgs, cfg *config.AppConfig, log logger.Logger) (schedule.Schedule, error) {
	name := args.Scheduler
	if name == "" {
		name = cfg.Scheduler
	}
	run, ok := schedulers[name]
	if !ok {
		return schedule.Schedule{}, errors.Errorf("unknown scheduler %q (have %v)", name, SchedulerNames())
	}
	g := args.Concurrency
	if g == 0 {
		g = cfg.Concurrency
	}

	jobPool, kind, err := LoadPool(args)
	if err != nil {
		return schedule.Schedule{}, err
	}

	started := time.Now()
	s, err := run(jobPool, g, cfg.LPRoundingTolerance)
	if err != nil {
		return schedule.Schedule{}, errors.Wrapf(err, "run %s", name)
	}
	elapsed := time.Since(started)

	metrics.Get().Record(s)
	if s.AllJobsScheduled {
		stats := metrics.Collect(s, g)
		log.Infof("%s scheduled %d jobs on %d active slots (utilization %.2f) in %s",
			name, stats.Jobs, stats.ActiveSlots, stats.Utilization, elapsed)
	} else {
		log.Warnf("%s: pool of %d jobs is infeasible at concurrency %d", name, jobPool.Size(), g)
	}

	storePath := args.StorePath
	if storePath == "" {
		storePath = cfg.StorePath
	}
	if storePath != "" {
		if err := persistResult(storePath, name, kind, jobPool, g, s, elapsed); err != nil {
			log.Errorf("store run result: %v", err)
		}
	}
	return s, nil
}

func persistResult(path, name, kind string, p pool.AbstractPool, g int, s schedule.Schedule, elapsed time.Duration) error {
	store, err := database.NewStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	stats := metrics.Collect(s, g)
	return store.SaveResult(&database.RunResult{
		Scheduler:   name,
		PoolKind:    kind,
		PoolSize:    p.Size(),
		Concurrency: g,
		Feasible:    s.AllJobsScheduled,
		ActiveSlots: stats.ActiveSlots,
		BusyUnits:   stats.BusyUnits,
		Elapsed:     elapsed.Microseconds(),
	})
}

// ListRuns logs the results recorded in the run store.
func ListRuns(path string, log logger.Logger) error {
	if path == "" {
		return errors.New("no run store given")
	}
	store, err := database.NewStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.ListResults()
	if err != nil {
		return err
	}
	for _, r := range results {
		log.Infof("%s %s pool=%s jobs=%d g=%d feasible=%v active=%d elapsed=%dus",
			r.ID, r.Scheduler, r.PoolKind, r.PoolSize, r.Concurrency, r.Feasible, r.ActiveSlots, r.Elapsed)
	}
	return nil
}
