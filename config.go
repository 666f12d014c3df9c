package main

import (
	"github.com/gravitational/hrmtest/e2e/framework"
	"github.com/gravitational/hrmtest/e2e/specs"

	"github.com/gravitational/trace"
)

// runConfig describes the run command
type runConfig struct {
	framework.TestContextType
	// Scenarios names the scenarios to run, all if empty
	Scenarios []string
	// Debug dumps goroutine stacks on interrupt
	Debug bool
	// ProfileAddr serves pprof endpoints if set
	ProfileAddr string
}

// checkAndSetDefaults applies environment overrides and validates the config
func (r *runConfig) checkAndSetDefaults() error {
	var errors []error
	if err := r.TestContextType.CheckAndSetDefaults(); err != nil {
		errors = append(errors, err)
	}
	if _, err := specs.Lookup(r.Scenarios...); err != nil {
		errors = append(errors, err)
	}
	return trace.NewAggregate(errors...)
}
