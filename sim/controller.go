package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pthm-cable/sprout/systems"
)

// DefaultTickInterval paces a Controller when the config leaves it unset.
const DefaultTickInterval = 100 * time.Millisecond

// ErrControllerDone is returned by Send once Run has exited.
var ErrControllerDone = errors.New("sim: controller is not running")

// Command is a control request for a running simulation.
type Command uint8

const (
	CmdStart Command = iota
	CmdStop
	CmdStatus
	CmdReset
	CmdStep
	CmdFaster
	CmdSlower
)

var commandNames = []string{"start", "stop", "status", "reset", "step", "faster", "slower"}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return fmt.Sprintf("command(%d)", c)
}

// ParseCommand maps a command word, case-insensitively, to its Command.
func ParseCommand(s string) (Command, error) {
	word := strings.ToLower(strings.TrimSpace(s))
	for i, name := range commandNames {
		if word == name {
			return Command(i), nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", s)
}

// Status describes the simulation after a command was applied.
type Status struct {
	Running        bool
	Tick           int
	Population     int
	StepsPerUpdate int
}

func (s Status) String() string {
	state := "Stopped"
	if s.Running {
		state = "Running"
	}
	return fmt.Sprintf("Status: %s (tick %d, %d nodes, %dx)", state, s.Tick, s.Population, s.StepsPerUpdate)
}

type request struct {
	cmd   Command
	reply chan Status
}

// Controller drives a Sim on its own goroutine at a fixed interval and
// applies commands between steps. After Run starts, the Sim must only be
// touched through Send, Snapshot and Logs.
type Controller struct {
	sim      *Sim
	interval time.Duration
	maxTicks int

	requests chan request
	done     chan struct{}
}

// NewController creates a controller stepping s every interval while running.
func NewController(s *Sim, interval time.Duration) *Controller {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Controller{
		sim:      s,
		interval: interval,
		requests: make(chan request),
		done:     make(chan struct{}),
	}
}

// SetMaxTicks makes Run return once the engine reaches n ticks (0 = never).
// Must be called before Run.
func (c *Controller) SetMaxTicks(n int) { c.maxTicks = n }

// Done is closed when Run returns.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Run processes commands and steps the simulation until ctx is cancelled or
// max ticks is reached. It returns ctx.Err() on cancellation and nil when
// max ticks is reached.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case req := <-c.requests:
			req.reply <- c.handle(req.cmd)

		case <-ticker.C:
			if c.sim.Paused() {
				continue
			}
			c.sim.Step()
			if c.maxTicks > 0 && c.sim.Tick() >= c.maxTicks {
				c.sim.SetPaused(true)
				slog.Info("max ticks reached", "tick", c.sim.Tick())
				return nil
			}
		}
	}
}

func (c *Controller) handle(cmd Command) Status {
	s := c.sim
	switch cmd {
	case CmdStart:
		s.SetPaused(false)
	case CmdStop:
		s.SetPaused(true)
	case CmdReset:
		if err := s.Reset(); err != nil {
			slog.Error("reset failed", "error", err)
		}
	case CmdStep:
		s.Step()
	case CmdFaster:
		s.SetStepsPerUpdate(s.StepsPerUpdate() * 2)
	case CmdSlower:
		s.SetStepsPerUpdate(s.StepsPerUpdate() / 2)
	}

	st := c.status()
	if cmd == CmdStatus {
		s.logs.Logf(st.Tick, "%s", st)
	}
	return st
}

func (c *Controller) status() Status {
	return Status{
		Running:        !c.sim.Paused(),
		Tick:           c.sim.Tick(),
		Population:     len(c.sim.Snapshot().Nodes),
		StepsPerUpdate: c.sim.StepsPerUpdate(),
	}
}

// Send applies cmd on the controller goroutine and waits for the resulting
// status.
func (c *Controller) Send(ctx context.Context, cmd Command) (Status, error) {
	reply := make(chan Status, 1)
	select {
	case c.requests <- request{cmd: cmd, reply: reply}:
	case <-c.done:
		return Status{}, ErrControllerDone
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}

	select {
	case st := <-reply:
		return st, nil
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

// Snapshot returns the latest published state of the driven simulation.
func (c *Controller) Snapshot() *systems.Snapshot { return c.sim.Snapshot() }

// Logs returns the driven simulation's event log.
func (c *Controller) Logs() []LogEntry { return c.sim.Logs() }
