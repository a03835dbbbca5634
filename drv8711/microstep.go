// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package drv8711

import (
	"errors"
	"fmt"
)

// ErrUnsupportedDivisor is returned when a microstep divisor has no mode code.
var ErrUnsupportedDivisor = errors.New("drv8711: unsupported microstep divisor")

// Mode is the value of the MODE field of the CTRL register. It describes how
// many microsteps add up to one full step.
type Mode uint8

const (
	// ModeFull is 1 microstep per step.
	ModeFull Mode = 0
	// ModeHalf is 2 microsteps per step.
	ModeHalf Mode = 1
	// ModeMicrostep4 is 4 microsteps per step.
	ModeMicrostep4 Mode = 2
	// ModeMicrostep8 is 8 microsteps per step.
	ModeMicrostep8 Mode = 3
	// ModeMicrostep16 is 16 microsteps per step.
	ModeMicrostep16 Mode = 4
	// ModeMicrostep32 is 32 microsteps per step.
	ModeMicrostep32 Mode = 5
	// ModeMicrostep64 is 64 microsteps per step.
	ModeMicrostep64 Mode = 6
	// ModeMicrostep128 is 128 microsteps per step.
	ModeMicrostep128 Mode = 7
	// ModeMicrostep256 is 256 microsteps per step.
	ModeMicrostep256 Mode = 8
)

// Resolve returns the mode code for a microstep divisor.
//
// Only powers of two from 1 to 256 are valid. Any other divisor returns
// ModeFull together with an error wrapping ErrUnsupportedDivisor; the caller
// decides what to do with it, nothing is substituted silently.
func Resolve(divisor uint) (Mode, error) {
	switch divisor {
	case 1:
		return ModeFull, nil
	case 2:
		return ModeHalf, nil
	case 4:
		return ModeMicrostep4, nil
	case 8:
		return ModeMicrostep8, nil
	case 16:
		return ModeMicrostep16, nil
	case 32:
		return ModeMicrostep32, nil
	case 64:
		return ModeMicrostep64, nil
	case 128:
		return ModeMicrostep128, nil
	case 256:
		return ModeMicrostep256, nil
	default:
		return ModeFull, fmt.Errorf("%w: %d", ErrUnsupportedDivisor, divisor)
	}
}

// Divisor returns the number of microsteps per full step, or 0 for the
// reserved codes 9 to 15.
func (m Mode) Divisor() uint {
	if m > ModeMicrostep256 {
		return 0
	}
	return 1 << m
}

func (m Mode) String() string {
	if d := m.Divisor(); d != 0 {
		return fmt.Sprintf("1/%d", d)
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}
