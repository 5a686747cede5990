package store

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/soroosh-tanzadeh/snapkv/locker"
)

type options struct {
	id         string
	logger     log.FieldLogger
	lockConfig locker.Config
}

type Option func(*options)

// WithID overrides the generated store ID used in log fields.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithLogger sets the logger of the store and of its lock.
func WithLogger(logger log.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
		o.lockConfig.Logger = logger
	}
}

func WithMaxReadersBeforeWriter(n int) Option {
	return func(o *options) {
		o.lockConfig.MaxReadersBeforeWriter = n
	}
}

// WithSlowWaitThreshold logs a warning for every operation that waited longer than d for the lock.
func WithSlowWaitThreshold(d time.Duration) Option {
	return func(o *options) {
		o.lockConfig.SlowWaitThreshold = d
	}
}
