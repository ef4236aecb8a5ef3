package framework

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/golang/glog"
)

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun wraps a Runnable with a name.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

type runResult struct {
	name string
	err  error
}

// Runner runs multiple Runnables and collect errors.
// When any Runnable stops, the rest are canceled.
type Runner struct {
	Context context.Context
	Runners []Runnable

	cancel   context.CancelFunc
	resultCh chan runResult
	exitCh   chan struct{}
}

// NewRunner creates a runner with a default background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a runner with a specified context.
func NewRunnerWith(ctx context.Context) *Runner {
	r := &Runner{
		resultCh: make(chan runResult),
		exitCh:   make(chan struct{}),
	}
	r.Context, r.cancel = context.WithCancel(ctx)
	return r
}

// HandleSignals handles CtrlC and SIGTERM from the system.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		glog.Info("stop requested")
		r.cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(r.exitCh)
	}()
	return r
}

// Go spawns Runnables.
func (r *Runner) Go(runners ...Runnable) *Runner {
	for _, runner := range runners {
		var name string
		if named, ok := runner.(Named); ok {
			name = named.Name()
		} else {
			name = strconv.Itoa(len(r.Runners))
		}
		r.Runners = append(r.Runners, runner)
		glog.V(4).Infof("start Runner[%s]", name)
		go func(runner Runnable, name string) {
			err := runner.Run(r.Context)
			glog.V(4).Infof("Runner[%s] stopped: %v", name, err)
			r.resultCh <- runResult{name: name, err: err}
		}(runner, name)
	}
	return r
}

// Stop cancels all Runnables.
func (r *Runner) Stop() {
	r.cancel()
}

// Wait waits until all Runnables stop and aggregate errors.
// context.Canceled is not considered an error.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for range r.Runners {
		select {
		case <-r.exitCh:
			return ErrForcedExit
		case result := <-r.resultCh:
			if result.err != nil && !errors.Is(result.err, context.Canceled) {
				glog.Errorf("%s: %v", result.name, result.err)
				errs.Add(result.err)
			}
			r.cancel()
		}
	}
	return errs.Aggregate()
}

// RunWithContextCancel runs a func which doesn't accept a context.
// onCancel is called only when the context is canceled.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case <-ctx.Done():
		if onCancel != nil {
			onCancel()
		}
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// RunWithContextCloser ensures closer.Close is either called on cancel
// or exit of fn, e.g. to stop a blocking Accept or Read.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	var closed bool
	err := RunWithContextCancel(ctx, func() {
		closer.Close()
		closed = true
	}, fn)
	if !closed {
		closer.Close()
	}
	return err
}
