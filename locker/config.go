package locker

import (
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultMaxReadersBeforeWriter = 100

type Config struct {
	// MaxReadersBeforeWriter caps how many readers a writer hands the lock to before
	// the next waiting writer is admitted. Values below 1 fall back to DefaultMaxReadersBeforeWriter.
	MaxReadersBeforeWriter int

	// SlowWaitThreshold enables a warning for every blocking acquisition that waited longer than it.
	// Zero disables the measurement entirely.
	SlowWaitThreshold time.Duration

	Logger log.FieldLogger
}

func (c Config) withDefaults() Config {
	if c.MaxReadersBeforeWriter < 1 {
		c.MaxReadersBeforeWriter = DefaultMaxReadersBeforeWriter
	}
	if c.Logger == nil {
		c.Logger = log.StandardLogger()
	}
	return c
}
