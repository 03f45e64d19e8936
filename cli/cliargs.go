// Package cli wires the scheduling library into a command-line driver:
// flag parsing, the load/filter/schedule/report pipeline, result
// persistence, and a cron-driven watch mode.
package cli

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// CLIArgs holds all configurable options passed via the command line.
// It is populated once in ParseFlags() and then passed around the driver.
type CLIArgs struct {
	JobsPath    string // Path to the job file
	Format      string // Job file format: json or csv
	Scheduler   string // Scheduler name (see SchedulerNames)
	Concurrency int    // Concurrency bound g
	Filter      string // Boolean expression filtering loaded jobs
	ConfigPath  string // Optional JSON config file
	StorePath   string // Optional BoltDB file recording run results
	LogLevel    string // debug, info, warn, error
	Watch       string // Cron expression for repeated runs
	ListRuns    bool   // List stored run results and exit
}

// ParseArgs reads command-line flags into CLIArgs.
func ParseArgs(arguments []string) (CLIArgs, error) {
	var args CLIArgs
	flags := pflag.NewFlagSet("activetime", pflag.ContinueOnError)

	flags.StringVar(&args.JobsPath, "jobs", "", "Path to the job file")
	flags.StringVar(&args.Format, "format", "json", "Job file format: json or csv")
	flags.StringVarP(&args.Scheduler, "scheduler", "s", "", "Scheduler to run")
	flags.IntVarP(&args.Concurrency, "concurrency", "g", 0, "Concurrency bound")
	flags.StringVar(&args.Filter, "filter", "", "Boolean filter over loaded jobs, e.g. 'duration > 2'")
	flags.StringVar(&args.ConfigPath, "config", "", "Path to a JSON config file")
	flags.StringVar(&args.StorePath, "store", "", "BoltDB file recording run results")
	flags.StringVar(&args.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&args.Watch, "watch", "", "Cron expression to re-run the pipeline on a cadence")
	flags.BoolVar(&args.ListRuns, "list", false, "List stored run results")

	if err := flags.Parse(arguments); err != nil {
		return CLIArgs{}, errors.Wrap(err, "parse flags")
	}
	switch args.Format {
	case "json", "csv":
	default:
		return CLIArgs{}, errors.Errorf("unknown job file format %q", args.Format)
	}
	return args, nil
}

// ParseFlags reads the process arguments into CLIArgs.
func ParseFlags() (CLIArgs, error) {
	return ParseArgs(os.Args[1:])
}
