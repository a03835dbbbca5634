// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package drv8711

import (
	"encoding/binary"
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

var (
	// ErrBusNotInitialized is returned by SPIBus before InitBus succeeded.
	ErrBusNotInitialized = errors.New("drv8711: spi bus not initialized")
	// ErrBusInitialized is returned by a second call to SPIBus.InitBus.
	ErrBusInitialized = errors.New("drv8711: spi bus already initialized")
)

// Opts holds the SPI binding settings.
type Opts struct {
	// Freq is the SPI clock. The chip accepts up to 4 MHz.
	Freq physic.Frequency
	// CS is driven by the binding when set. SCS is active high on the
	// DRV8711, which most SPI controllers can't do with their own CS line.
	CS gpio.PinOut
	// Sleep is the SLEEPn line. It is driven high by InitPins when set.
	Sleep gpio.PinOut
	// Reset is the RESET line. It is driven low by InitPins when set.
	Reset gpio.PinOut
}

// DefaultOpts is the recommended SPI setup, using the controller's CS line.
var DefaultOpts = Opts{
	Freq: 1 * physic.MegaHertz,
}

// SPIBus is a Bus over a periph.io SPI port. Frames are 16 bits, MSB first,
// in mode 0.
type SPIBus struct {
	p    spi.Port
	c    spi.Conn
	opts Opts
}

// NewSPIBus returns a Bus for p. Nothing is sent until InitBus is called.
func NewSPIBus(p spi.Port, opts *Opts) *SPIBus {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Freq == 0 {
		o.Freq = DefaultOpts.Freq
	}
	return &SPIBus{p: p, opts: o}
}

// NewSPI returns a Dev connected through p, with cfg written to the chip.
//
// A nil opts uses DefaultOpts and a nil cfg uses DefaultConfig().
func NewSPI(p spi.Port, opts *Opts, cfg *Config) (*Dev, error) {
	return New(NewSPIBus(p, opts), cfg)
}

// OpenSPI returns a Dev connected through p without writing any register.
func OpenSPI(p spi.Port, opts *Opts) (*Dev, error) {
	return Open(NewSPIBus(p, opts))
}

func (s *SPIBus) String() string {
	if s.c == nil {
		return fmt.Sprintf("%s (not connected)", s.p)
	}
	return s.c.String()
}

// InitBus connects to the SPI port.
func (s *SPIBus) InitBus() error {
	if s.c != nil {
		return ErrBusInitialized
	}
	mode := spi.Mode0
	if s.opts.CS != nil {
		mode |= spi.NoCS
		if err := s.opts.CS.Out(gpio.Low); err != nil {
			return err
		}
	}
	c, err := s.p.Connect(s.opts.Freq, mode, 8)
	if err != nil {
		return err
	}
	s.c = c
	return nil
}

// InitPins takes the chip out of reset and sleep.
func (s *SPIBus) InitPins() error {
	if s.opts.Reset != nil {
		if err := s.opts.Reset.Out(gpio.Low); err != nil {
			return err
		}
	}
	if s.opts.Sleep != nil {
		if err := s.opts.Sleep.Out(gpio.High); err != nil {
			return err
		}
	}
	return nil
}

// Send writes one register word.
func (s *SPIBus) Send(word uint16) error {
	// Bit 15 clear selects a write.
	return s.tx(word&^readFlag, nil)
}

// Fetch reads the register at addr. The chip clocks the data bits out during
// the same frame as the read request.
func (s *SPIBus) Fetch(addr Addr) (uint16, error) {
	var r [2]byte
	if err := s.tx(readFlag|addr.word(), r[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(r[:]), nil
}

func (s *SPIBus) tx(word uint16, r []byte) (err error) {
	if s.c == nil {
		return ErrBusNotInitialized
	}
	if s.opts.CS != nil {
		if err := s.opts.CS.Out(gpio.High); err != nil {
			return err
		}
		defer func() {
			if err2 := s.opts.CS.Out(gpio.Low); err == nil {
				err = err2
			}
		}()
	}
	var w [2]byte
	binary.BigEndian.PutUint16(w[:], word)
	return s.c.Tx(w[:], r)
}
