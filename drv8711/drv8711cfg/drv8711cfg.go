// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package drv8711cfg loads DRV8711 register settings from YAML.
//
// A document lists registers by name and fields by their datasheet name.
// Anything left out keeps the value from drv8711.DefaultConfig:
//
//	ctrl:
//	  mode: 4
//	torque:
//	  torque: 0x60
//	stall:
//	  sdthr: 0x30
package drv8711cfg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/GermanBionicSystems/drv8711/drv8711"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path on top of the default configuration.
func Load(path string) (*drv8711.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("drv8711cfg: %w", err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document on top of the default configuration.
//
// Unknown registers or fields are an error. Values wider than their field
// are accepted and masked when the register is encoded.
func Parse(b []byte) (*drv8711.Config, error) {
	cfg := drv8711.DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("drv8711cfg: %w", err)
	}
	return &cfg, nil
}
