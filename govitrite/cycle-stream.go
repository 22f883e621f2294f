package govitrite

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"sync"
)

// CycleStream is a lazy sequence of cycles flowing through a channel.
// A stream is finite and not restartable: each producing call makes a fresh,
// independent stream.  Consuming the stream partially and discarding the rest
// is safe once Cancel is called.
type CycleStream struct {
	Outlet chan Cycle

	mu     sync.Mutex
	err    error
	cancel chan struct{}
}

func NewCycleStream() *CycleStream {
	stream := &CycleStream{
		Outlet: make(chan Cycle, 1),
		cancel: make(chan struct{}),
	}
	return stream
}

// StreamCycle returns a stream carrying the single given cycle.
func StreamCycle(c Cycle) *CycleStream {
	next := NewCycleStream()

	go func() {
		next.Outlet <- c
		next.Close()
	}()

	return next
}

func (stream *CycleStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

// Cancel tells the producer to stop emitting.  The Outlet still must be
// drained (it closes shortly after).
func (stream *CycleStream) Cancel() {
	stream.mu.Lock()
	select {
	case <-stream.cancel:
	default:
		close(stream.cancel)
	}
	stream.mu.Unlock()
}

// Canceled returns a channel closed once Cancel has been called.
func (stream *CycleStream) Canceled() <-chan struct{} {
	return stream.cancel
}

// Fail records a terminal error and is called by producers before Close.
func (stream *CycleStream) Fail(err error) {
	stream.mu.Lock()
	if stream.err == nil {
		stream.err = err
	}
	stream.mu.Unlock()
}

// Err returns the terminal error of this stream, if any.
// Only meaningful once the Outlet has closed.
func (stream *CycleStream) Err() error {
	stream.mu.Lock()
	defer stream.mu.Unlock()
	return stream.err
}

func (stream *CycleStream) PushCycle(c Cycle) {
	stream.Outlet <- c
}

func (stream *CycleStream) PullCycle() Cycle {
	return <-stream.Outlet
}

// PullAll drains the stream, returning the number of cycles seen.
func (stream *CycleStream) PullAll() int {
	count := int(0)
	for range stream.Outlet {
		count++
	}
	return count
}

// Collect drains the stream into a slice.
func (stream *CycleStream) Collect() []Cycle {
	var all []Cycle
	for c := range stream.Outlet {
		all = append(all, c)
	}
	return all
}

func (stream *CycleStream) Print(
	out io.WriteCloser,
	opts PrintOpts) *CycleStream {

	next := NewCycleStream()
	next.cancel = stream.cancel

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		count := 0
		for c := range stream.Outlet {
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
			}
			buf.WriteByte(',')

			count++
			fmt.Fprintf(&buf, "%06d,", count)
			c.WriteAsString(&buf, opts)
			buf.WriteByte('\n')
			out.Write([]byte(buf.String()))
			buf.Reset()
			next.Outlet <- c
		}
		out.Close()
		next.Fail(stream.Err())
		next.Close()
	}()

	return next
}

// AddTo forwards only cycles newly added to target, dropping duplicates.
func (stream *CycleStream) AddTo(target CycleAdder) *CycleStream {
	next := NewCycleStream()
	next.cancel = stream.cancel

	go func() {
		for c := range stream.Outlet {
			if target.TryAddCycle(c) {
				next.Outlet <- c
			}
		}
		next.Fail(stream.Err())
		next.Close()
	}()

	return next
}

// SelectSize forwards only cycles passing the given selector.
func (stream *CycleStream) SelectSize(sel CycleSelector) *CycleStream {
	next := NewCycleStream()
	next.cancel = stream.cancel

	go func() {
		for c := range stream.Outlet {
			if sel.SelectsCycle(c) {
				next.Outlet <- c
			}
		}
		next.Fail(stream.Err())
		next.Close()
	}()

	return next
}

func (c Cycle) WriteAsString(out io.Writer, opts PrintOpts) {
	if opts.ShowSize {
		fmt.Fprintf(out, "n=%d,", len(c))
	}
	if opts.Nodes {
		for i, ni := range c {
			if i > 0 {
				io.WriteString(out, "-")
			}
			fmt.Fprintf(out, "%d", ni)
		}
		io.WriteString(out, ",")
	}
	if opts.Key {
		var keyBuf [256]byte
		key := c.AppendKeyTo(keyBuf[:0])
		io.WriteString(out, hex.EncodeToString(key))
		io.WriteString(out, ",")
	}
}

// SelectFromCatalog streams all catalog cycles passing the given selector.
func SelectFromCatalog(cat Catalog, sel CycleSelector) *CycleStream {
	next := NewCycleStream()

	onHit := make(chan Cycle, 4)

	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()

	go func() {
		for c := range onHit {
			if sel.SelectsCycle(c) {
				next.Outlet <- c
			}
		}
		next.Close()
	}()

	return next
}
