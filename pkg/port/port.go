// Package port holds the definition of the physical port to the oximeter,
// a USB HID device.
package port

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sstallion/go-hid"
	"github.com/womat/debug"
)

// pollInterval is the longest a single device read blocks. Close waits at most
// this long for a pending read.
const pollInterval = 100 * time.Millisecond

// ErrClosed is returned by reads and writes on a closed port.
var ErrClosed = errors.New("port closed")

// Device is the subset of *hid.Device the port uses.
type Device interface {
	ReadWithTimeout(p []byte, timeout time.Duration) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// Port is a HID report stream. Each Write sends one output report, each Read
// returns one input report.
//
// The device is only touched while mu is held, so Close may be called from
// another goroutine while a Read is waiting for a report.
type Port struct {
	mu  sync.Mutex
	dev Device
	// timeout of a read, 0 blocks until a report arrives
	timeout time.Duration
	// exit shuts down the HID library on Close
	exit func() error

	// closing is set before Close waits for mu
	closing atomic.Bool
	closed  bool
}

// Open opens the first HID device with the given vendor and product id.
func Open(vendor, product uint16, timeout time.Duration) (*Port, error) {
	if err := hid.Init(); err != nil {
		return nil, fmt.Errorf("init hid: %w", err)
	}

	dev, err := hid.OpenFirst(vendor, product)
	if err != nil {
		_ = hid.Exit()
		return nil, fmt.Errorf("open hid device %04x:%04x: %w", vendor, product, err)
	}

	debug.InfoLog.Printf("opened hid device %04x:%04x", vendor, product)
	return &Port{dev: dev, timeout: timeout, exit: hid.Exit}, nil
}

// New wraps an already opened device.
func New(dev Device, timeout time.Duration) *Port {
	return &Port{dev: dev, timeout: timeout}
}

// Read reads one input report. It waits in slices of pollInterval and gives up
// with hid.ErrTimeout once the device was silent for the port timeout.
func (p *Port) Read(b []byte) (int, error) {
	var waited time.Duration

	for {
		slice := pollInterval
		if p.timeout > 0 {
			if waited >= p.timeout {
				return 0, fmt.Errorf("no report within %v: %w", p.timeout, hid.ErrTimeout)
			}
			if rest := p.timeout - waited; rest < slice {
				slice = rest
			}
		}

		n, err := p.readSlice(b, slice)
		if errors.Is(err, hid.ErrTimeout) {
			waited += slice
			continue
		}
		return n, err
	}
}

func (p *Port) readSlice(b []byte, slice time.Duration) (int, error) {
	if p.closing.Load() {
		return 0, ErrClosed
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, ErrClosed
	}
	return p.dev.ReadWithTimeout(b, slice)
}

// Write writes one output report. The first byte is the report id.
func (p *Port) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, ErrClosed
	}
	return p.dev.Write(b)
}

// Close closes the device. A pending Read returns ErrClosed.
func (p *Port) Close() error {
	p.closing.Store(true)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	err := p.dev.Close()
	if p.exit != nil {
		if e := p.exit(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
