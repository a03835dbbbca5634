// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"io"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCommands(t *testing.T) {
	var got []string
	for _, c := range newRootCmd().Commands() {
		got = append(got, c.Name())
	}
	sort.Strings(got)
	want := []string{"clear-faults", "disable", "enable", "init", "microsteps", "status"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("commands difference (-got +want):\n%s", diff)
	}
}

func TestArgs(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
	}{
		{name: "too many divisors", args: []string{"microsteps", "2", "4"}},
		{name: "status takes no args", args: []string{"status", "x"}},
		{name: "bad speed", args: []string{"--hz", "fast", "status"}},
		{name: "unknown pin", args: []string{"--hz", "1MHz", "--sleep", "NOT_A_PIN_42", "enable"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetArgs(tc.args)
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			if err := cmd.Execute(); err == nil {
				t.Errorf("Execute(%q) succeeded", tc.args)
			}
		})
	}
}
