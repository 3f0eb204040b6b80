// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBindFlags_BasicTypes(t *testing.T) {
	type params struct {
		Layout   string        `flag:"layout,l" desc:"layout key"`
		Unmuted  bool          `flag:"unmuted" desc:"start unmuted"`
		Count    int           `flag:"count" desc:"tile count"`
		Scale    float64       `flag:"scale" desc:"scale"`
		Timeout  time.Duration `flag:"timeout" desc:"platform timeout"`
		Origins  []string      `flag:"origin" desc:"allowed origins"`
		Untagged string
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	err := flagSet.Parse([]string{
		"-l", "3x2",
		"--unmuted",
		"--count", "5",
		"--scale", "1.5",
		"--timeout", "3s",
		"--origin", "https://a.example,https://b.example",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Layout != "3x2" {
		t.Errorf("Layout = %q, want %q", p.Layout, "3x2")
	}
	if !p.Unmuted {
		t.Error("Unmuted = false, want true")
	}
	if p.Count != 5 {
		t.Errorf("Count = %d, want 5", p.Count)
	}
	if p.Scale != 1.5 {
		t.Errorf("Scale = %v, want 1.5", p.Scale)
	}
	if p.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", p.Timeout)
	}
	if strings.Join(p.Origins, " ") != "https://a.example https://b.example" {
		t.Errorf("Origins = %v, want both origins", p.Origins)
	}
	if flagSet.Lookup("untagged") != nil {
		t.Error("untagged field was bound")
	}
}

func TestBindFlags_Defaults(t *testing.T) {
	type params struct {
		Layout  string        `flag:"layout" default:"2x1"`
		Verbose bool          `flag:"verbose" default:"true"`
		Count   int           `flag:"count" default:"4"`
		Timeout time.Duration `flag:"timeout" default:"5s"`
		Tags    []string      `flag:"tags" default:"a,b"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Layout != "2x1" || !p.Verbose || p.Count != 4 || p.Timeout != 5*time.Second {
		t.Errorf("defaults = %+v, want layout 2x1, verbose, count 4, timeout 5s", p)
	}
	if len(p.Tags) != 2 {
		t.Errorf("Tags = %v, want [a b]", p.Tags)
	}
}

func TestBindFlags_EmbeddedJSONOutput(t *testing.T) {
	type params struct {
		JSONOutput
		Layout string `flag:"layout"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse([]string{"--json"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.OutputJSON {
		t.Error("OutputJSON = false, want true")
	}
}

func TestBindFlags_Errors(t *testing.T) {
	type badDefault struct {
		Count int `flag:"count" default:"many"`
	}
	type unsupported struct {
		Weights map[string]int `flag:"weights"`
	}

	tests := []struct {
		name   string
		params any
	}{
		{"not a pointer", badDefault{}},
		{"bad default", &badDefault{}},
		{"unsupported type", &unsupported{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
			if err := BindFlags(test.params, flagSet); err == nil {
				t.Error("BindFlags() = nil, want error")
			}
		})
	}
}

func TestFlagsFromParamsPanicsOnInvalidParams(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FlagsFromParams did not panic")
		}
	}()
	FlagsFromParams("test", "not a struct")
}
