package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitfold/activetime/cli"
	"github.com/bitfold/activetime/config"
	"github.com/bitfold/activetime/logger"
)

func main() {
	args, err := cli.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "activetime: %v\n", err)
		os.Exit(2)
	}

	cfg := config.Default()
	if args.ConfigPath != "" {
		loaded, err := config.LoadConfig(args.ConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "activetime: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	level := cfg.Log.Level
	if args.LogLevel != "" {
		level = args.LogLevel
	}
	log := logger.New(level, cfg.Log.Format)

	if args.ListRuns {
		storePath := args.StorePath
		if storePath == "" {
			storePath = cfg.StorePath
		}
		if err := cli.ListRuns(storePath, log); err != nil {
			log.Errorf("list runs: %v", err)
			os.Exit(1)
		}
		return
	}

	if args.Watch != "" {
		runner, err := cli.StartWatch(args, cfg, log)
		if err != nil {
			log.Errorf("start watch: %v", err)
			os.Exit(1)
		}
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		<-runner.Stop().Done()
		return
	}

	s, err := cli.RunOnce(args, cfg, log)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	if !s.AllJobsScheduled {
		os.Exit(3)
	}
}
