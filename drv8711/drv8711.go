// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package drv8711

import (
	"fmt"
)

// Bus is what a transport binding must provide to drive the chip.
//
// Implementations own the physical connection. Calls are synchronous; Dev
// never calls into a Bus concurrently with itself.
type Bus interface {
	// Send transmits one register word.
	Send(word uint16) error
	// Fetch returns the word currently stored at addr. The address bits of
	// the returned word are undefined.
	Fetch(addr Addr) (uint16, error)
	// InitBus performs the one time transport setup. It is called once per
	// Dev.
	InitBus() error
	// InitPins configures the auxiliary control lines needed before
	// communication.
	InitPins() error
}

// DefaultsApplier may be implemented by a Bus that needs to write the
// configuration in a different order, for example to assert ENBL last.
type DefaultsApplier interface {
	ApplyDefaults(cfg *Config) error
}

// Dev is a handle to a DRV8711 stepper motor gate driver.
//
// Dev does no locking. If more than one goroutine drives the same chip, the
// caller must serialize whole calls, since every setter is a read, a merge
// and a write.
type Dev struct {
	b Bus
}

// New initializes the bus and the control pins, then writes cfg to the chip.
//
// A nil cfg writes DefaultConfig().
func New(b Bus, cfg *Config) (*Dev, error) {
	d, err := Open(b)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		c := DefaultConfig()
		cfg = &c
	}
	if err := d.ApplyDefaults(cfg); err != nil {
		return nil, err
	}
	return d, nil
}

// Open initializes the bus and the control pins without touching the
// register contents, for a chip that was configured earlier.
func Open(b Bus) (*Dev, error) {
	if err := b.InitBus(); err != nil {
		return nil, fmt.Errorf("drv8711: bus init: %w", err)
	}
	if err := b.InitPins(); err != nil {
		return nil, fmt.Errorf("drv8711: pin init: %w", err)
	}
	return &Dev{b: b}, nil
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return fmt.Sprintf("drv8711{%v}", d.b)
}

// Halt disables the output stage.
//
// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	return d.Enable(false)
}

// ApplyDefaults writes every register of cfg, CTRL first and STATUS last.
//
// If the Bus implements DefaultsApplier, the write is delegated to it.
func (d *Dev) ApplyDefaults(cfg *Config) error {
	if a, ok := d.b.(DefaultsApplier); ok {
		return a.ApplyDefaults(cfg)
	}
	for _, w := range cfg.Words() {
		if err := d.b.Send(w); err != nil {
			return fmt.Errorf("drv8711: write %s: %w", AddrOf(w), err)
		}
	}
	return nil
}

// SetMicrosteps sets the MODE field of the CTRL register for the given
// number of microsteps per full step. Every other CTRL field keeps the value
// read from the chip.
//
// divisor must be a power of two between 1 and 256, otherwise an error
// wrapping ErrUnsupportedDivisor is returned and nothing is sent.
func (d *Dev) SetMicrosteps(divisor uint) error {
	m, err := Resolve(divisor)
	if err != nil {
		return err
	}
	return d.update(AddrControl, func(w uint16) uint16 {
		return w&^modeMask | field(uint8(m), modeShift, 4)
	})
}

// Microsteps returns the number of microsteps per full step currently
// configured on the chip. It returns 0 for a reserved MODE value.
func (d *Dev) Microsteps() (uint, error) {
	w, err := d.fetch(AddrControl)
	if err != nil {
		return 0, err
	}
	return Mode(ControlFromWord(w).Mode).Divisor(), nil
}

// Enable sets or clears ENBL in the CTRL register.
func (d *Dev) Enable(on bool) error {
	return d.update(AddrControl, func(w uint16) uint16 {
		return w&^1 | uint16(b2u(on))
	})
}

// SetDirection sets RDIR in the CTRL register. RDIR is XOR-ed with the DIR
// pin by the chip.
func (d *Dev) SetDirection(reverse bool) error {
	return d.update(AddrControl, func(w uint16) uint16 {
		return w&^(1<<1) | field(b2u(reverse), 1, 1)
	})
}

// SetTorque sets the TORQUE field, keeping SIMPLTH.
func (d *Dev) SetTorque(t uint8) error {
	return d.update(AddrTorque, func(w uint16) uint16 {
		return w&^0x00FF | uint16(t)
	})
}

// Status reads the STATUS register.
func (d *Dev) Status() (Status, error) {
	w, err := d.fetch(AddrStatus)
	if err != nil {
		return Status{}, err
	}
	return StatusFromWord(w), nil
}

// ClearFaults clears all latched fault and stall bits.
func (d *Dev) ClearFaults() error {
	if err := d.b.Send(Status{}.Word()); err != nil {
		return fmt.Errorf("drv8711: write %s: %w", AddrStatus, err)
	}
	return nil
}

const (
	modeShift = 3
	// modeMask covers bits 6-3 of CTRL.
	modeMask uint16 = 0xF << modeShift
)

func (d *Dev) fetch(a Addr) (uint16, error) {
	w, err := d.b.Fetch(a)
	if err != nil {
		return 0, fmt.Errorf("drv8711: read %s: %w", a, err)
	}
	return w, nil
}

// update performs a read-modify-write of register a. The address bits
// returned by the chip are discarded and replaced by a before f is applied.
func (d *Dev) update(a Addr, f func(w uint16) uint16) error {
	w, err := d.fetch(a)
	if err != nil {
		return err
	}
	w = f(w&^addrMask)&^addrMask | a.word()
	if err := d.b.Send(w); err != nil {
		return fmt.Errorf("drv8711: write %s: %w", a, err)
	}
	return nil
}
