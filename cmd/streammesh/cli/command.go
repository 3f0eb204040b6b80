// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the command tree.
type Command struct {
	// Name is what the user types to select the command.
	Name string

	// Aliases are alternative names, e.g. "ls" for "layouts". They are
	// listed in help and accepted by dispatch and suggestions.
	Aliases []string

	// Summary is the one-line description in the parent's listing.
	Summary string

	// Description is the longer text at the top of the command's help.
	// Falls back to Summary.
	Description string

	// Usage overrides the synthesized usage line, e.g.
	// "streammesh share [flags] [CHANNEL...]".
	Usage string

	Examples []Example

	// Flags builds the command's flag set. It is called once per parse
	// and once per help rendering, so it must return a fresh set bound
	// to the same targets each time. Nil means no flags.
	Flags func() *pflag.FlagSet

	// Subcommands are selected by the first positional argument.
	Subcommands []*Command

	// Run receives the positional arguments left after flag parsing.
	// A command with Subcommands may also have Run; it handles
	// arguments that do not name a subcommand.
	Run func(args []string) error

	// Output receives help text. Inherited from the parent; the root
	// defaults to os.Stderr.
	Output io.Writer

	parent *Command
}

// Example is one entry in the Examples section of help.
type Example struct {
	Description string
	Command     string
}

// Execute routes args through the tree and runs the selected command.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.output())
		return nil
	}

	if len(c.Subcommands) > 0 && len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		if sub := c.lookup(args[0]); sub != nil {
			sub.parent = c
			return sub.Execute(args[1:])
		}
		if c.Run == nil {
			return c.unknownCommand(args[0])
		}
	}

	if c.Run == nil {
		c.PrintHelp(c.output())
		if len(c.Subcommands) == 0 {
			return fmt.Errorf("no action defined for %q", c.fullName())
		}
		if len(args) == 0 {
			return fmt.Errorf("subcommand required")
		}
		return fmt.Errorf("subcommand required (got flag %q)", args[0])
	}

	positional, err := c.parseFlags(args)
	if err != nil {
		return err
	}
	return c.Run(positional)
}

// lookup finds a direct subcommand by name or alias.
func (c *Command) lookup(name string) *Command {
	for _, sub := range c.Subcommands {
		if sub.Name == name || slices.Contains(sub.Aliases, name) {
			return sub
		}
	}
	return nil
}

func (c *Command) unknownCommand(name string) error {
	if suggestion := suggestCommand(name, c.Subcommands); suggestion != "" {
		return c.usageError("unknown command %q (did you mean %q?)", name, suggestion)
	}
	return c.usageError("unknown command %q", name)
}

// parseFlags parses args against a fresh flag set and returns the
// positional arguments.
func (c *Command) parseFlags(args []string) ([]string, error) {
	if c.Flags == nil {
		return args, nil
	}
	flagSet := c.Flags()
	flagSet.SetOutput(io.Discard)
	if err := flagSet.Parse(args); err != nil {
		message := err.Error()
		if strings.HasPrefix(message, "unknown flag") {
			// The failed parse may have consumed state; suggest from a
			// fresh set.
			if suggestion := suggestFlag(args, c.Flags()); suggestion != "" {
				return nil, c.usageError("%s (did you mean %s?)", message, suggestion)
			}
		}
		return nil, c.usageError("%s", message)
	}
	return flagSet.Args(), nil
}

// usageError formats a dispatch or flag error with a pointer to help.
func (c *Command) usageError(format string, args ...any) error {
	return fmt.Errorf(format+"\n\nRun '%s --help' for usage.", append(args, c.fullName())...)
}

// PrintHelp writes the command's help to w.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()

	switch {
	case c.Description != "":
		fmt.Fprintf(w, "%s\n\n", c.Description)
	case c.Summary != "":
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	usage := c.Usage
	if usage == "" {
		usage = name + " [flags]"
		if len(c.Subcommands) > 0 {
			usage = name + " <command> [flags]"
		}
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", usage)

	if len(c.Aliases) > 0 {
		fmt.Fprintf(w, "\nAliases:\n  %s\n", strings.Join(append([]string{c.Name}, c.Aliases...), ", "))
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		table := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			label := sub.Name
			if len(sub.Aliases) > 0 {
				label += " (" + strings.Join(sub.Aliases, ", ") + ")"
			}
			fmt.Fprintf(table, "  %s\t%s\n", label, sub.Summary)
		}
		table.Flush()
	}

	if c.Flags != nil {
		if defaults := c.Flags().FlagUsages(); defaults != "" {
			fmt.Fprintf(w, "\nFlags:\n%s", defaults)
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\nExamples:\n")
		for index, example := range c.Examples {
			if index > 0 {
				fmt.Fprintln(w)
			}
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", name)
	}
}

func (c *Command) output() io.Writer {
	for command := c; command != nil; command = command.parent {
		if command.Output != nil {
			return command.Output
		}
	}
	return os.Stderr
}

// fullName is the command path from the root, e.g. "streammesh share".
func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
