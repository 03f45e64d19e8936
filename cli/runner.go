package cli

import (
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/bitfold/activetime/config"
	"github.com/bitfold/activetime/logger"
)

// StartWatch re-runs the scheduling pipeline on the cron cadence in
// args.Watch and returns the started cron runner; callers stop it when done.
func StartWatch(args CLIArgs, cfg *config.AppConfig, log logger.Logger) (*cron.Cron, error) {
	if _, err := cron.ParseStandard(args.Watch); err != nil {
		return nil, errors.Wrapf(err, "invalid cron expression %q", args.Watch)
	}

	c := cron.New()
	_, err := c.AddFunc(args.Watch, func() {
		if _, err := RunOnce(args, cfg, log); err != nil {
			log.Errorf("scheduled run: %v", err)
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "register watch job")
	}

	log.Infof("watching %s on cadence %q", args.JobsPath, args.Watch)
	c.Start()
	return c, nil
}
