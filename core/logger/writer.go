package logger

import (
	"bufio"
	"io"
	"sync"
)

const lineQueueSize = 256

// lineWriter hands formatted lines to a single goroutine that owns the sink.
// Lines are buffered while more are queued and flushed once the queue runs
// dry, so bursts of updates cost one write syscall instead of one per line.
type lineWriter struct {
	lines chan []byte
	done  chan struct{}
	out   *bufio.Writer

	closeOnce sync.Once
	sendMu    sync.RWMutex
	closed    bool
	errMu     sync.Mutex
	err       error
}

func newLineWriter(out io.Writer) *lineWriter {
	w := &lineWriter{
		lines: make(chan []byte, lineQueueSize),
		done:  make(chan struct{}),
		out:   bufio.NewWriter(out),
	}
	go w.run()
	return w
}

func (w *lineWriter) run() {
	defer close(w.done)
	for line := range w.lines {
		w.record(writeLine(w.out, line))
		if len(w.lines) == 0 {
			w.record(w.out.Flush())
		}
	}
	w.record(w.out.Flush())
}

func writeLine(out *bufio.Writer, line []byte) error {
	_, err := out.Write(line)
	return err
}

// Write queues a copy of line. It blocks while the queue is full so no line
// is lost, and reports the first sink error seen so far.
func (w *lineWriter) Write(line []byte) error {
	if len(line) == 0 {
		return nil
	}
	if err := w.firstErr(); err != nil {
		return err
	}
	w.sendMu.RLock()
	defer w.sendMu.RUnlock()
	if w.closed {
		return io.ErrClosedPipe
	}
	w.lines <- append([]byte(nil), line...)
	return nil
}

// Close drains queued lines, flushes the sink and returns its first error.
func (w *lineWriter) Close() error {
	w.closeOnce.Do(func() {
		w.sendMu.Lock()
		w.closed = true
		close(w.lines)
		w.sendMu.Unlock()
	})
	<-w.done
	return w.firstErr()
}

func (w *lineWriter) firstErr() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}

func (w *lineWriter) record(err error) {
	if err == nil {
		return
	}
	w.errMu.Lock()
	defer w.errMu.Unlock()
	if w.err == nil {
		w.err = err
	}
}
