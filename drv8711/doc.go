// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package drv8711 interfaces with the Texas Instruments DRV8711 stepper motor
// pre-driver via SPI.
//
// The chip holds eight 12 bit registers. Each one is written as a 16 bit
// frame: bit 15 is the read flag, bits 14-12 the address and bits 11-0 the
// data. The register types in this package encode to that frame with Word()
// and decode from it with the matching FromWord function.
//
// Dev talks to the chip through the Bus interface. SPIBus implements it on
// top of a periph.io SPI port; tests and other transports can provide their
// own.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/drv8711.pdf
package drv8711
