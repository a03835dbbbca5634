// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package drv8711

// Config holds one value of every register. It is written to the chip by
// Dev.ApplyDefaults and is not kept in sync with the chip afterwards.
type Config struct {
	Control Control `yaml:"ctrl"`
	Torque  Torque  `yaml:"torque"`
	Off     Off     `yaml:"off"`
	Blank   Blank   `yaml:"blank"`
	Decay   Decay   `yaml:"decay"`
	Stall   Stall   `yaml:"stall"`
	Drive   Drive   `yaml:"drive"`
	Status  Status  `yaml:"status"`
}

// DefaultConfig returns the register values recommended by the datasheet,
// with the motor enabled in full step mode.
//
// Change the fields of the returned value before handing it to New.
func DefaultConfig() Config {
	return Config{
		Control: Control{
			DTime:  3, // 850ns
			ISGain: 3, // 40
			Mode:   uint8(ModeFull),
			Enable: 1,
		},
		Torque: Torque{
			Torque: 0xBA,
		},
		Off: Off{
			TOff: 0x30,
		},
		Blank: Blank{
			ABT:    1,
			TBlank: 0x08,
		},
		Decay: Decay{
			DecMod: 3, // mixed decay
			TDecay: 0x10,
		},
		Stall: Stall{
			VDiv:  3, // back EMF / 4
			SDCnt: 3, // 8 steps
			SDThr: 0x40,
		},
		Drive: Drive{
			TDriveP: 1,
			TDriveN: 1,
			OCPDeg:  1,
			OCPTh:   1,
		},
	}
}

// Words returns the encoded registers in the order they are written to the
// chip: CTRL, TORQUE, OFF, BLANK, DECAY, STALL, DRIVE, STATUS.
func (c *Config) Words() [8]uint16 {
	return [8]uint16{
		c.Control.Word(),
		c.Torque.Word(),
		c.Off.Word(),
		c.Blank.Word(),
		c.Decay.Word(),
		c.Stall.Word(),
		c.Drive.Word(),
		c.Status.Word(),
	}
}
