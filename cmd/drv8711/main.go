// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// drv8711 configures a DRV8711 stepper driver over SPI.
//
// Run "drv8711 init" once after power up to write the register set, then use
// the other commands to adjust or inspect the chip.
package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
