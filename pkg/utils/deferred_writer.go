package utils

import (
	"bytes"
	"io"
	"sync"
)

// DeferredWriter passes writes through to its destination until Hold is
// called, then buffers them in memory until Release. Safe for concurrent use.
type DeferredWriter struct {
	mu   sync.Mutex
	dst  io.Writer
	held bool
	buf  bytes.Buffer
}

func NewDeferredWriter(dst io.Writer) *DeferredWriter {
	return &DeferredWriter{dst: dst}
}

// Write forwards p, or stores it while held.
func (d *DeferredWriter) Write(p []byte) (n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.held {
		return d.buf.Write(p)
	}
	return d.dst.Write(p)
}

// Hold starts buffering writes.
func (d *DeferredWriter) Hold() {
	d.mu.Lock()
	d.held = true
	d.mu.Unlock()
}

// Release writes everything buffered since Hold to the destination and
// resumes pass-through.
func (d *DeferredWriter) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.held = false
	if d.buf.Len() == 0 {
		return nil
	}

	_, err := d.buf.WriteTo(d.dst)
	return err
}
