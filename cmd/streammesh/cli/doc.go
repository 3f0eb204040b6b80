// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the streammesh
// binary.
//
// The central type is [Command], a named subcommand with optional
// nested [Command.Subcommands], a [pflag.FlagSet] factory, and a Run
// function. Commands are assembled into a tree in
// cmd/streammesh/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and help output with
// examples.
//
// Flags are usually declared as struct tags on a params struct and
// bound with [FlagsFromParams]. Embedding [JSONOutput] adds --json.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3).
package cli
