// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/GermanBionicSystems/drv8711/drv8711"
	"github.com/GermanBionicSystems/drv8711/drv8711/drv8711cfg"
	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

type options struct {
	spi     string
	hz      string
	cs      string
	sleep   string
	reset   string
	config  string
	verbose bool
}

// session is an open SPI port and the pins resolved from the flags.
type session struct {
	port spi.PortCloser
	opts drv8711.Opts
}

func (s *session) Close() error {
	return s.port.Close()
}

func pinByName(name string) (gpio.PinOut, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	return p, nil
}

func (o *options) open() (*session, error) {
	s := &session{}
	if err := s.opts.Freq.Set(o.hz); err != nil {
		return nil, fmt.Errorf("--hz: %w", err)
	}
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	var err error
	if s.opts.CS, err = pinByName(o.cs); err != nil {
		return nil, err
	}
	if s.opts.Sleep, err = pinByName(o.sleep); err != nil {
		return nil, err
	}
	if s.opts.Reset, err = pinByName(o.reset); err != nil {
		return nil, err
	}
	if s.port, err = spireg.Open(o.spi); err != nil {
		return nil, err
	}
	if o.verbose {
		log.Printf("using %s at %s", s.port, s.opts.Freq)
	}
	return s, nil
}

// withDev opens the chip without rewriting its registers and runs f.
func (o *options) withDev(f func(d *drv8711.Dev) error) error {
	s, err := o.open()
	if err != nil {
		return err
	}
	defer s.Close()
	d, err := drv8711.OpenSPI(s.port, &s.opts)
	if err != nil {
		return err
	}
	return f(d)
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "drv8711",
		Short:         "Configure a DRV8711 stepper motor driver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	f := root.PersistentFlags()
	f.StringVar(&o.spi, "spi", "", "SPI port to use")
	f.StringVar(&o.hz, "hz", drv8711.DefaultOpts.Freq.String(), "SPI port speed")
	f.StringVar(&o.cs, "cs", "", "GPIO driving SCS, empty to use the port's CS line")
	f.StringVar(&o.sleep, "sleep", "", "GPIO connected to SLEEPn")
	f.StringVar(&o.reset, "reset", "", "GPIO connected to RESET")
	f.StringVar(&o.config, "config", "", "YAML register overrides used by init")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "verbose mode")

	root.AddCommand(
		newInitCmd(o),
		newMicrostepsCmd(o),
		newStatusCmd(o),
		newClearFaultsCmd(o),
		newEnableCmd(o, "enable", "Enable the output stage", true),
		newEnableCmd(o, "disable", "Disable the output stage", false),
	)
	return root
}

func run(f func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := f(cmd, args)
		if err != nil {
			log.Printf("drv8711: %v", err)
		}
		return err
	}
}

func newInitCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the full register set to the chip",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string) error {
			cfg := drv8711.DefaultConfig()
			if o.config != "" {
				c, err := drv8711cfg.Load(o.config)
				if err != nil {
					return err
				}
				cfg = *c
			}
			if o.verbose {
				for _, w := range cfg.Words() {
					log.Printf("%-6s %#04x", drv8711.AddrOf(w), w)
				}
			}
			s, err := o.open()
			if err != nil {
				return err
			}
			defer s.Close()
			d, err := drv8711.NewSPI(s.port, &s.opts, &cfg)
			if err != nil {
				return err
			}
			cmd.Println(d)
			return nil
		}),
	}
}

func newMicrostepsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "microsteps [divisor]",
		Short: "Print or set the number of microsteps per full step",
		Args:  cobra.MaximumNArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string) error {
			return o.withDev(func(d *drv8711.Dev) error {
				if len(args) == 1 {
					n, err := strconv.ParseUint(args[0], 10, 32)
					if err != nil {
						return err
					}
					if err := d.SetMicrosteps(uint(n)); err != nil {
						return err
					}
				}
				n, err := d.Microsteps()
				if err != nil {
					return err
				}
				if n == 0 {
					return errors.New("chip reports a reserved MODE value")
				}
				cmd.Printf("1/%d\n", n)
				return nil
			})
		}),
	}
}

func newStatusCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the STATUS register",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string) error {
			return o.withDev(func(d *drv8711.Dev) error {
				s, err := d.Status()
				if err != nil {
					return err
				}
				cmd.Println(s)
				if s.Faulted() {
					return errors.New("fault bits set")
				}
				return nil
			})
		}),
	}
}

func newClearFaultsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-faults",
		Short: "Clear the latched fault and stall bits",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string) error {
			return o.withDev(func(d *drv8711.Dev) error {
				return d.ClearFaults()
			})
		}),
	}
}

func newEnableCmd(o *options, use, short string, on bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string) error {
			return o.withDev(func(d *drv8711.Dev) error {
				return d.Enable(on)
			})
		}),
	}
}
