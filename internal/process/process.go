// Package process tells whether the target media application is running.
package process

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	ps "github.com/shirou/gopsutil/v4/process"

	"github.com/llehouerou/mediascrobbler/internal/errmsg"
)

// Lister returns the names of the running processes.
type Lister interface {
	Names(ctx context.Context) ([]string, error)
}

// SystemLister lists the processes of the local machine.
type SystemLister struct{}

// Names implements Lister. Processes that exit while being read are skipped.
func (SystemLister) Names(ctx context.Context) ([]string, error) {
	procs, err := ps.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.OpProcessList, err)
	}
	names := make([]string, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Checker looks for one executable name in the process list.
type Checker struct {
	lister Lister
	name   string
	log    zerolog.Logger
}

// NewChecker creates a Checker for the executable name.
func NewChecker(lister Lister, name string, log zerolog.Logger) *Checker {
	return &Checker{
		lister: lister,
		name:   name,
		log:    log.With().Str("component", "process").Logger(),
	}
}

// Name returns the executable name being looked for.
func (c *Checker) Name() string {
	return c.name
}

// IsRunning returns true if a process with the exact name exists.
// A listing error counts as not running.
func (c *Checker) IsRunning(ctx context.Context) bool {
	names, err := c.lister.Names(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("cannot list processes")
		return false
	}
	for _, n := range names {
		if n == c.name {
			return true
		}
	}
	return false
}
