// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for streammesh.
//
// Configuration comes from exactly one place, checked in order:
//
//   - an explicit path (the --config flag), via [LoadFile]
//   - the STREAMMESH_CONFIG environment variable, via [Load]
//   - [Default], when neither is set
//
// There is no file discovery. A viewer must work with zero setup, so
// the absence of a config file is not an error; a path that is given
// but cannot be read is.
//
// Variable expansion runs on path-like fields after loading:
// ${HOME}, ${XDG_RUNTIME_DIR}, and ${VAR:-default} patterns are
// expanded. No other environment variables override config values.
//
// Key exports:
//
//   - [Config] -- the file shape, with [MultiviewConfig] nested
//   - [Resolve] -- the flag/env/default decision used by the CLI
//   - [Config.Validate] -- aggregated field checks
//
// This package depends on no other streammesh packages.
package config
