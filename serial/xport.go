// Package serial carries ATT PDUs over a serial line, or any byte
// stream, using base64 framed packets protected by a CRC16.
package serial

import (
	"bufio"
	"encoding/hex"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	tserial "github.com/tarm/serial"
)

type XportCfg struct {
	DevPath     string
	Baud        int
	ReadTimeout time.Duration
}

func NewXportCfg() *XportCfg {
	return &XportCfg{
		Baud:        115200,
		ReadTimeout: 10 * time.Second,
	}
}

// A Handler answers one request PDU. A nil response is not sent.
type Handler interface {
	HandleRequest(req []byte) []byte
}

var errTimeout = errors.New("timeout reading from serial connection")

// An Xport sends and receives framed PDUs over a byte stream.
type Xport struct {
	rwc     io.ReadWriteCloser
	scanner *bufio.Scanner
	dec     decoder
	log     log.FieldLogger

	// Set for serial ports, where a read timeout looks like EOF.
	retryEOF bool
	// Pause between lines, for receivers with small buffers.
	lineDelay time.Duration

	txmu sync.Mutex

	mu      sync.Mutex
	closing bool
}

// Open opens the serial port described by cfg.
func Open(cfg *XportCfg) (*Xport, error) {
	c := &tserial.Config{
		Name:        cfg.DevPath,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	}
	port, err := tserial.OpenPort(c)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", cfg.DevPath)
	}
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, errors.Wrapf(err, "flush %s", cfg.DevPath)
	}

	x := NewXport(port)
	x.retryEOF = true
	x.lineDelay = 20 * time.Millisecond
	return x, nil
}

// NewXport returns an Xport using rwc. End of stream on rwc ends Serve.
func NewXport(rwc io.ReadWriteCloser) *Xport {
	return &Xport{
		rwc:     rwc,
		scanner: bufio.NewScanner(rwc),
		log:     log.StandardLogger(),
	}
}

// SetLogger sets the logger used by x.
func (x *Xport) SetLogger(l log.FieldLogger) {
	x.log = l
}

func (x *Xport) isClosing() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.closing
}

// Stop closes the underlying stream. A running Serve returns nil.
func (x *Xport) Stop() error {
	x.mu.Lock()
	if x.closing {
		x.mu.Unlock()
		return nil
	}
	x.closing = true
	x.mu.Unlock()
	return x.rwc.Close()
}

func (x *Xport) txRaw(b []byte) error {
	x.log.Debugf("Tx serial\n%s", hex.Dump(b))
	_, err := x.rwc.Write(b)
	return err
}

// Tx sends b as one frame.
func (x *Xport) Tx(b []byte) error {
	x.log.Debugf("Encoding PDU:\n%s", hex.Dump(b))

	x.txmu.Lock()
	defer x.txmu.Unlock()
	for i, line := range encodeFrame(b) {
		if i > 0 && x.lineDelay > 0 {
			time.Sleep(x.lineDelay)
		}
		if err := x.txRaw(line); err != nil {
			return errors.Wrap(err, "serial write")
		}
	}
	return nil
}

// Rx blocks until a complete frame arrives and returns its payload.
// It returns io.EOF at the end of the stream.
func (x *Xport) Rx() ([]byte, error) {
	for x.scanner.Scan() {
		line := x.scanner.Bytes()
		x.log.Debugf("Rx serial:\n%s", hex.Dump(line))

		b, err := x.dec.feed(line)
		if err != nil {
			return nil, err
		}
		if b != nil {
			x.log.Debugf("Decoded PDU:\n%s", hex.Dump(b))
			return b, nil
		}
	}

	err := x.scanner.Err()
	if err == nil || err == io.ErrNoProgress {
		if !x.retryEOF {
			return nil, io.EOF
		}
		// The scanner stops at EOF, which a serial port reports
		// on a read timeout. Start over with a new one.
		x.scanner = bufio.NewScanner(x.rwc)
		return nil, errTimeout
	}
	return nil, err
}

// Serve answers every received PDU with h until the stream ends or
// Stop is called. Frames that fail to decode are dropped.
func (x *Xport) Serve(h Handler) error {
	for {
		req, err := x.Rx()
		if x.isClosing() {
			return nil
		}
		switch {
		case err == io.EOF:
			return nil
		case err == errTimeout:
			continue
		case errors.Cause(err) == ErrCRC, errors.Cause(err) == errBadFrame:
			x.log.Warnf("Dropping frame: %v", err)
			continue
		case err != nil:
			return err
		}

		rsp := h.HandleRequest(req)
		if rsp == nil {
			continue
		}
		if err := x.Tx(rsp); err != nil {
			if x.isClosing() {
				return nil
			}
			return err
		}
	}
}
