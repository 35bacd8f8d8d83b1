package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate checks the settings that are not owned by a domain package.
// Terrain and streaming settings are validated by the streamer when it is
// built from this config.
func (c *Config) Validate() error {
	var err error

	if c.Workers.Count < 0 {
		err = multierr.Append(err, fmt.Errorf("workers.count %d must not be negative", c.Workers.Count))
	}
	if c.Workers.QueueSize < 0 {
		err = multierr.Append(err, fmt.Errorf("workers.queue_size %d must not be negative", c.Workers.QueueSize))
	}
	if c.Workers.JobsPerSecond < 0 {
		err = multierr.Append(err, fmt.Errorf("workers.jobs_per_second %g must not be negative", c.Workers.JobsPerSecond))
	}
	if c.Workers.ApplyBudget < 0 {
		err = multierr.Append(err, fmt.Errorf("workers.apply_budget %d must not be negative", c.Workers.ApplyBudget))
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("graphics size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.FOV <= 0 || c.Graphics.FOV >= 180 {
		err = multierr.Append(err, fmt.Errorf("graphics.fov %g outside (0,180)", c.Graphics.FOV))
	}
	if c.Viewer.MoveSpeed < 0 {
		err = multierr.Append(err, fmt.Errorf("viewer.move_speed %g must not be negative", c.Viewer.MoveSpeed))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("logging.level %q unknown", c.Logging.Level))
	}

	return err
}
