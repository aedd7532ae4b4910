// Package dispatch runs update handlers on a fixed set of lanes. Work sharing
// a key (a Telegram user) always lands on the same lane and runs in arrival
// order; different keys proceed in parallel.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/m3rciful/clanintake/core/logger"
)

// ErrClosed is returned when Submit is called after Close.
var ErrClosed = errors.New("telegram dispatch: closed")

const (
	defaultLanes     = 8
	defaultQueueSize = 64
)

// Options controls lane count and per-lane buffering.
type Options struct {
	Lanes     int
	QueueSize int
}

type job struct {
	ctx  context.Context
	key  int64
	name string
	run  func(context.Context)
}

// Dispatcher owns one goroutine per lane.
type Dispatcher struct {
	lanes  []chan job
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	panics atomic.Uint64
	done   atomic.Uint64
}

// New starts the lane goroutines; zero options fall back to defaults.
func New(opts Options) *Dispatcher {
	if opts.Lanes <= 0 {
		opts.Lanes = defaultLanes
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}

	d := &Dispatcher{lanes: make([]chan job, opts.Lanes)}
	d.wg.Add(opts.Lanes)
	for i := range d.lanes {
		d.lanes[i] = make(chan job, opts.QueueSize)
		go d.worker(i, d.lanes[i])
	}
	return d
}

// Lane returns the lane index serving key.
func (d *Dispatcher) Lane(key int64) int {
	n := int64(len(d.lanes))
	idx := key % n
	if idx < 0 {
		idx += n
	}
	return int(idx)
}

// Submit queues run on the lane of key. It blocks while that lane is full so
// that no update is dropped, and returns ctx.Err() if ctx ends first.
func (d *Dispatcher) Submit(ctx context.Context, key int64, name string, run func(context.Context)) error {
	if run == nil {
		return errors.New("telegram dispatch: nil run function")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	select {
	case d.lanes[d.Lane(key)] <- job{ctx: ctx, key: key, name: name, run: run}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting work and waits for queued jobs to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, lane := range d.lanes {
		close(lane)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// Panics returns how many jobs panicked.
func (d *Dispatcher) Panics() uint64 {
	return d.panics.Load()
}

// Completed returns how many jobs ran, panicked ones included.
func (d *Dispatcher) Completed() uint64 {
	return d.done.Load()
}

func (d *Dispatcher) worker(idx int, jobs <-chan job) {
	defer d.wg.Done()
	for j := range jobs {
		d.runJob(idx, j)
	}
}

func (d *Dispatcher) runJob(idx int, j job) {
	defer d.done.Add(1)
	defer func() {
		if r := recover(); r != nil {
			d.panics.Add(1)
			logger.Error(j.ctx, "tg.dispatch", "job.panic",
				slog.String("job", j.name),
				slog.Int("lane", idx),
				slog.String("error", fmt.Sprint(r)),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	j.run(j.ctx)
}
