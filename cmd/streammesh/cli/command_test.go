// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "streammesh",
		Subcommands: []*Command{
			{Name: "share", Run: func([]string) error { called = "share"; return nil }},
			{Name: "decode", Run: func([]string) error { called = "decode"; return nil }},
		},
	}

	if err := root.Execute([]string{"decode"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "decode" {
		t.Errorf("dispatched to %q, want %q", called, "decode")
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var layoutKey string
	var received []string

	command := &Command{
		Name: "share",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("share", pflag.ContinueOnError)
			flagSet.StringVar(&layoutKey, "layout", "2x1", "layout key")
			return flagSet
		},
		Run: func(args []string) error {
			received = args
			return nil
		},
	}

	if err := command.Execute([]string{"--layout", "3x3", "ninja", "shroud"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if layoutKey != "3x3" {
		t.Errorf("layout = %q, want %q", layoutKey, "3x3")
	}
	if strings.Join(received, ",") != "ninja,shroud" {
		t.Errorf("args = %v, want [ninja shroud]", received)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "share",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("share", pflag.ContinueOnError)
			flagSet.String("layout", "", "layout key")
			flagSet.Int("count", 0, "tile count")
			return flagSet
		},
		Run: func([]string) error { return nil },
	}

	err := command.Execute([]string{"--laytou", "2x2"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --layout") {
		t.Errorf("error = %q, want suggestion for --layout", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "share",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("share", pflag.ContinueOnError)
			flagSet.String("layout", "", "layout key")
			return flagSet
		},
		Run: func([]string) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for a distant flag", err.Error())
	}
}

func TestCommand_Execute_Alias(t *testing.T) {
	var called string
	root := &Command{
		Name: "streammesh",
		Subcommands: []*Command{
			{Name: "layouts", Aliases: []string{"ls"}, Run: func([]string) error { called = "layouts"; return nil }},
		},
	}

	if err := root.Execute([]string{"ls"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "layouts" {
		t.Errorf("dispatched to %q, want layouts", called)
	}

	var output bytes.Buffer
	root.PrintHelp(&output)
	if !strings.Contains(output.String(), "layouts (ls)") {
		t.Errorf("help = %q, want the alias listed", output.String())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "streammesh",
		Subcommands: []*Command{
			{Name: "share"},
			{Name: "decode"},
			{Name: "layouts"},
		},
	}

	err := root.Execute([]string{"decdoe"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), `did you mean "decode"`) {
		t.Errorf("error = %q, want suggestion for decode", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			var output bytes.Buffer
			ran := false
			command := &Command{
				Name:    "share",
				Summary: "Build a share link",
				Output:  &output,
				Run:     func([]string) error { ran = true; return nil },
			}
			if err := command.Execute([]string{helpArg}); err != nil {
				t.Fatalf("Execute(%q) error: %v", helpArg, err)
			}
			if ran {
				t.Error("Run was called for a help flag")
			}
			if !strings.Contains(output.String(), "Build a share link") {
				t.Errorf("help output = %q, want the summary", output.String())
			}
		})
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	var output bytes.Buffer
	root := &Command{
		Name:        "streammesh",
		Output:      &output,
		Subcommands: []*Command{{Name: "share", Summary: "Build a share link"}},
	}

	err := root.Execute(nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Fatalf("Execute() error = %v, want subcommand required", err)
	}
	if !strings.Contains(output.String(), "Build a share link") {
		t.Errorf("help output = %q, want the subcommand listing", output.String())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	var params struct {
		Layout string `flag:"layout" desc:"layout key" default:"2x1"`
	}
	root := &Command{Name: "streammesh"}
	command := &Command{
		Name:        "share",
		Description: "Build a share link from channel names.",
		Flags: func() *pflag.FlagSet {
			return FlagsFromParams("share", &params)
		},
		Examples: []Example{{Description: "Two channels", Command: "streammesh share ninja shroud"}},
		parent:   root,
	}

	var output bytes.Buffer
	command.PrintHelp(&output)
	help := output.String()

	for _, want := range []string{
		"Build a share link from channel names.",
		"streammesh share [flags]",
		"--layout",
		`(default "2x1")`,
		"# Two channels",
		"streammesh share ninja shroud",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}
}
