// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package drv8711

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"
)

// levelPin records every level written to it.
type levelPin struct {
	gpiotest.Pin
	levels []gpio.Level
}

func (p *levelPin) Out(l gpio.Level) error {
	p.levels = append(p.levels, l)
	return p.Pin.Out(l)
}

func TestNewSPI(t *testing.T) {
	pb := &spitest.Playback{
		Playback: conntest.Playback{
			Ops: []conntest.IO{
				{W: []byte{0x0F, 0x01}},
				{W: []byte{0x10, 0xBA}},
				{W: []byte{0x20, 0x30}},
				{W: []byte{0x31, 0x08}},
				{W: []byte{0x43, 0x10}},
				{W: []byte{0x5F, 0x40}},
				{W: []byte{0x60, 0x55}},
				{W: []byte{0x70, 0x00}},
			},
			DontPanic: true,
		},
	}
	sleep := &gpiotest.Pin{N: "SLEEPn", L: gpio.Low}
	reset := &gpiotest.Pin{N: "RESET", L: gpio.High}

	d, err := NewSPI(pb, &Opts{Sleep: sleep, Reset: reset}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := pb.Close(); err != nil {
		t.Error(err)
	}
	if sleep.Read() != gpio.High {
		t.Error("SLEEPn not driven high")
	}
	if reset.Read() != gpio.Low {
		t.Error("RESET not driven low")
	}
	if got := d.String(); got != "drv8711{playback}" {
		t.Errorf("String() = %q", got)
	}
}

func TestSPIBusSetMicrosteps(t *testing.T) {
	pb := &spitest.Playback{
		Playback: conntest.Playback{
			Ops: []conntest.IO{
				// CTRL read, the chip returns junk in the address bits.
				{W: []byte{0x80, 0x00}, R: []byte{0x6C, 0x01}},
				{W: []byte{0x0C, 0x19}},
			},
			DontPanic: true,
		},
	}
	d, err := OpenSPI(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetMicrosteps(8); err != nil {
		t.Fatal(err)
	}
	if err := pb.Close(); err != nil {
		t.Error(err)
	}
}

func TestSPIBusFetch(t *testing.T) {
	for _, tc := range []struct {
		name string
		addr Addr
		ops  []conntest.IO
		want uint16
	}{
		{
			name: "ctrl",
			addr: AddrControl,
			ops:  []conntest.IO{{W: []byte{0x80, 0x00}, R: []byte{0x0F, 0x01}}},
			want: 0x0F01,
		},
		{
			name: "status",
			addr: AddrStatus,
			ops:  []conntest.IO{{W: []byte{0xF0, 0x00}, R: []byte{0x00, 0x21}}},
			want: 0x0021,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			pb := &spitest.Playback{Playback: conntest.Playback{Ops: tc.ops, DontPanic: true}}
			b := NewSPIBus(pb, nil)
			if err := b.InitBus(); err != nil {
				t.Fatal(err)
			}
			got, err := b.Fetch(tc.addr)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("Fetch(%v) = %#04x, want %#04x", tc.addr, got, tc.want)
			}
			if err := pb.Close(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestSPIBusChipSelect(t *testing.T) {
	pb := &spitest.Playback{
		Playback: conntest.Playback{
			Ops:       []conntest.IO{{W: []byte{0x70, 0x00}}},
			DontPanic: true,
		},
	}
	cs := &levelPin{}
	b := NewSPIBus(pb, &Opts{CS: cs})
	if err := b.InitBus(); err != nil {
		t.Fatal(err)
	}
	if err := b.Send(0x7000); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cs.levels, []gpio.Level{gpio.Low, gpio.High, gpio.Low}); diff != "" {
		t.Errorf("CS levels difference (-got +want):\n%s", diff)
	}
}

func TestSPIBusNotInitialized(t *testing.T) {
	b := NewSPIBus(&spitest.Playback{}, nil)
	if err := b.Send(0); !errors.Is(err, ErrBusNotInitialized) {
		t.Errorf("Send() error = %v", err)
	}
	if _, err := b.Fetch(AddrStatus); !errors.Is(err, ErrBusNotInitialized) {
		t.Errorf("Fetch() error = %v", err)
	}
	if err := b.InitBus(); err != nil {
		t.Fatal(err)
	}
	if err := b.InitBus(); !errors.Is(err, ErrBusInitialized) {
		t.Errorf("second InitBus() error = %v", err)
	}
}

func TestSPIBusTxError(t *testing.T) {
	// No ops recorded, so the first transfer fails.
	pb := &spitest.Playback{Playback: conntest.Playback{DontPanic: true}}
	d, err := OpenSPI(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetMicrosteps(2); err == nil {
		t.Error("SetMicrosteps() succeeded on a failing bus")
	}
}
