package duperq

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/format"
	"github.com/duperfmt/duper/reporter"
)

// Stage is one link of a pipeline (§4.K): it consumes values from in and
// forwards zero or more transformed values to out, closing out when it
// decides the pipeline is done (e.g. take's n-bound). Each stage owns the
// sender to its downstream neighbor — single-producer, single-consumer,
// per §4.K's execution model — and this package gives each stage its own
// goroutine connected by buffered channels, which is the idiomatic Go
// rendering of that cooperative per-stage scheduler (a single OS thread
// cooperatively multiplexing coroutines has no Go equivalent; channels
// plus one goroutine per stage preserve the same FIFO, backpressure, and
// downstream-close-signals-shutdown semantics).
//
// Run must read in to completion (until it closes, or Run gives up on
// ctx) without racing a read against ctx.Done(): Pipeline.Run cancels ctx
// the moment any single stage finishes, including ordinary early
// completion such as take's n-bound, precisely so that an upstream stage
// blocked trying to send into a now-unread, full in can unblock and wind
// down. If a stage raced ctx.Done() against its own in-channel receive,
// that cancellation could just as easily win the race and cause it to
// drop values it had already received from upstream — so ctx is only
// ever consulted on the send side, never the receive side.
type Stage interface {
	Run(ctx context.Context, in <-chan duper.Value, out chan<- duper.Value) error
}

// FilterStage forwards a value iff Pred accepts it.
type FilterStage struct{ Pred Predicate }

func (s FilterStage) Run(ctx context.Context, in <-chan duper.Value, out chan<- duper.Value) error {
	for v := range in {
		if s.Pred.Eval(v) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- v:
			}
		}
	}
	return nil
}

// TakeStage forwards the first N values, then returns — closing out and,
// via Pipeline.Run's cancellation-on-completion, promptly unblocking and
// shutting down every upstream stage even if it is blocked sending into a
// full buffered channel far upstream (§4.K/§8: "take 3 ... closes input
// promptly after the third", named as holding even over 10^6 values).
type TakeStage struct{ N int }

func (s TakeStage) Run(ctx context.Context, in <-chan duper.Value, out chan<- duper.Value) error {
	taken := 0
	for taken < s.N {
		v, ok := <-in
		if !ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- v:
		}
		taken++
	}
	return nil
}

// Output is the terminal stage: it renders each value to a line of text.
type Output interface {
	Render(v duper.Value) string
}

// CanonicalOutput renders the canonical one-line form (the default, §4.K).
type CanonicalOutput struct{}

func (CanonicalOutput) Render(v duper.Value) string { return format.Canonical(v, false) }

// PrettyOutput renders with the pretty-printer at default indent.
type PrettyOutput struct{}

func (PrettyOutput) Render(v duper.Value) string {
	return format.NewPrettyPrinter(format.PrettyOptions{}).Print(v)
}

// FormatOutput renders each value through a §4.J template string.
type FormatOutput struct{ Template *Template }

func (o FormatOutput) Render(v duper.Value) string { return o.Template.Render(v) }

// runStage runs stage, converting a panic inside it (e.g. a Predicate or
// Template bug tripped by a value the grammar lets through but the
// predicate/template logic doesn't handle) into a *reporter.InternalError
// rather than letting it cross the goroutine boundary and crash the whole
// process (§7: "panics in a stage are caught and rethrown as
// InternalError").
func runStage(ctx context.Context, stage Stage, in <-chan duper.Value, out chan<- duper.Value) (err error) {
	defer recoverInternal(&err)
	return stage.Run(ctx, in, out)
}

// recoverInternal recovers a panic on the current goroutine and stores it
// into *err as a *reporter.InternalError, leaving *err untouched if there
// was nothing to recover.
func recoverInternal(err *error) {
	if r := recover(); r != nil {
		*err = &reporter.InternalError{Message: fmt.Sprint(r)}
	}
}

// Pipeline is a compiled query: a chain of stages feeding a terminal
// Output (§4.K).
type Pipeline struct {
	Stages []Stage
	Output Output
}

// Run drives the pipeline over values received from input, writing one
// rendered line per value that survives to the output stage via emit.
// Execution stops early, with no error, if a downstream stage (e.g.
// TakeStage) finishes before input is exhausted: Run cancels its internal
// context the instant any single goroutine below returns, for any reason,
// which promptly unblocks every other stage that might otherwise be stuck
// forever trying to send into a full, no-longer-read buffered channel.
// That internal cancellation is not itself an error; genuine cancellation
// of the ctx passed in by the caller still propagates as one.
func (p *Pipeline) Run(ctx context.Context, input <-chan duper.Value, emit func(line string)) error {
	callerCtx := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	chans := make([]chan duper.Value, len(p.Stages)+1)
	for i := range chans {
		chans[i] = make(chan duper.Value, 16)
	}

	g.Go(func() error {
		defer cancel()
		defer close(chans[0])
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case v, ok := <-input:
				if !ok {
					return nil
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case chans[0] <- v:
				}
			}
		}
	})

	for i, stage := range p.Stages {
		i, stage := i, stage
		g.Go(func() error {
			defer cancel()
			defer close(chans[i+1])
			return runStage(ctx, stage, chans[i], chans[i+1])
		})
	}

	g.Go(func() (err error) {
		defer cancel()
		defer recoverInternal(&err)
		last := chans[len(chans)-1]
		for v := range last {
			emit(p.Output.Render(v))
		}
		return nil
	})

	err := g.Wait()
	if err != nil && errors.Is(err, context.Canceled) && callerCtx.Err() == nil {
		// Some stage (e.g. take reaching its bound) finished on its own
		// and Run's own cancel() above is what produced this error —
		// that is a normal early stop, not a pipeline failure.
		return nil
	}
	return err
}

// ParseLenOp maps the query grammar's cmp_op tokens to a LenOp.
func ParseLenOp(op string) (LenOp, error) {
	switch op {
	case "==", "=":
		return LenEq, nil
	case "!=", "<>":
		return LenNe, nil
	case "<":
		return LenLt, nil
	case "<=":
		return LenLe, nil
	case ">":
		return LenGt, nil
	case ">=":
		return LenGe, nil
	}
	return 0, fmt.Errorf("unknown length operator %q", op)
}

// ParseOrdering maps a comparison operator token to an Ordering, or
// reports that it is instead an equality operator (handled by Eq/Ne).
func ParseOrdering(op string) (Ordering, bool) {
	switch op {
	case "<":
		return OrdLt, true
	case "<=":
		return OrdLe, true
	case ">":
		return OrdGt, true
	case ">=":
		return OrdGe, true
	}
	return 0, false
}
