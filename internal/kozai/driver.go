package kozai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Observer receives each record after it has been persisted. Observers are
// observational only; their work never affects run correctness.
type Observer interface {
	OnStep(rec Record)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(rec Record)

func (f ObserverFunc) OnStep(rec Record) { f(rec) }

// Termination is the driver's stop policy: a macro-step count, a time cap,
// or both (whichever is hit first). Context cancellation additionally
// stops the run at the next macro-step boundary.
type Termination struct {
	MaxSteps int
	MaxTime  float64
}

func (t Termination) reached(step int, nextTarget float64) bool {
	if t.MaxSteps > 0 && step > t.MaxSteps {
		return true
	}
	if t.MaxTime > 0 && nextTarget > t.MaxTime+1e-9 {
		return true
	}
	return false
}

// Driver owns the macro clock. Each iteration asks the engine to advance
// to t + interval, treating the interval's internal subdivision as the
// engine's business, then extracts elements and appends one row.
type Driver struct {
	sys           *System
	rec           *Recorder
	interval      float64
	term          Termination
	progressEvery int
	log           zerolog.Logger
	observers     []Observer
}

func NewDriver(sys *System, rec *Recorder, interval float64, term Termination, log zerolog.Logger) *Driver {
	return &Driver{
		sys:      sys,
		rec:      rec,
		interval: interval,
		term:     term,
		log:      log,
	}
}

// SetProgressEvery enables a sparse progress line every n macro-steps.
func (d *Driver) SetProgressEvery(n int) { d.progressEvery = n }

func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Run executes macro-steps until the termination policy is reached. Any
// engine or sink error is fatal and reported with the clock time; there is
// no retry, since the engine's own adaptive substepping is the only
// self-correction in this design. On every exit path the rows already
// written are complete.
func (d *Driver) Run(ctx context.Context) error {
	for step := 1; !d.term.reached(step, float64(step)*d.interval); step++ {
		select {
		case <-ctx.Done():
			d.log.Info().Int("steps", step-1).Msg("run interrupted")
			return ctx.Err()
		default:
		}

		target := float64(step) * d.interval
		if err := d.sys.Sim.Advance(ctx, target); err != nil {
			return fmt.Errorf("macro-step %d: %w", step, err)
		}

		rec := Extract(d.sys.Sim)
		if err := d.rec.Append(rec); err != nil {
			return fmt.Errorf("macro-step %d: %w", step, err)
		}

		for _, o := range d.observers {
			o.OnStep(rec)
		}

		if d.progressEvery > 0 && step%d.progressEvery == 0 {
			d.log.Info().
				Int("step", step).
				Float64("t", rec.Years()).
				Float64("a1", rec.Inner.A).
				Float64("e1", rec.Inner.E).
				Float64("obliquity", rec.PlanetObliquity).
				Msg("progress")
		}
	}
	d.log.Info().Int("rows", d.rec.Rows()).Msg("run complete")
	return nil
}
