// Package supervisor runs the long-lived listeners of a binary under a
// suture supervisor, restarting any that fail and stopping all of them
// when the root context is canceled.
package supervisor

import (
	"time"

	"github.com/thejerf/suture/v4"

	"moviehub/pkg/logging"
)

type TreeConfig struct {
	FailureThreshold float64
	FailureDecay     float64
	FailureBackoff   time.Duration
	// ShutdownTimeout bounds how long each service may take to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig mirrors suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// New returns a supervisor whose lifecycle events go to the process logger.
// Zero fields of cfg take their defaults.
func New(name string, cfg TreeConfig) *suture.Supervisor {
	def := DefaultTreeConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.FailureDecay <= 0 {
		cfg.FailureDecay = def.FailureDecay
	}
	if cfg.FailureBackoff <= 0 {
		cfg.FailureBackoff = def.FailureBackoff
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}

	return suture.New(name, suture.Spec{
		EventHook:        logEvent,
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	})
}

func logEvent(e suture.Event) {
	switch e.Type() {
	case suture.EventTypeServicePanic, suture.EventTypeServiceTerminate:
		logging.Warn().Fields(e.Map()).Msg("[supervisor] " + e.String())
	case suture.EventTypeBackoff, suture.EventTypeStopTimeout:
		logging.Error().Fields(e.Map()).Msg("[supervisor] " + e.String())
	default:
		logging.Debug().Fields(e.Map()).Msg("[supervisor] " + e.String())
	}
}
