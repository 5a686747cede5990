package workload

import (
	"runtime"

	log "github.com/sirupsen/logrus"
)

type Config struct {
	Ops  int
	Keys int
	Seed int64

	// Operation mix; whatever the ratios leave over becomes gets.
	PutRatio      float64
	DeleteRatio   float64
	SnapshotRatio float64

	Workers int
	// Probers take snapshots in the background while the log is replayed.
	Probers int

	LatencySamples int

	Logger log.FieldLogger
}

func (c Config) withDefaults() Config {
	if c.Ops == 0 {
		c.Ops = 10_000
	}
	if c.Keys == 0 {
		c.Keys = 256
	}
	if c.PutRatio == 0 && c.DeleteRatio == 0 && c.SnapshotRatio == 0 {
		c.PutRatio, c.DeleteRatio, c.SnapshotRatio = 0.5, 0.2, 0.05
	}
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
	}
	if c.LatencySamples < 1 {
		c.LatencySamples = 1024
	}
	if c.Logger == nil {
		c.Logger = log.StandardLogger()
	}
	return c
}
