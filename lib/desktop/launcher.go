// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package desktop

import (
	"context"
	"errors"
	"os/exec"
)

// Launcher starts an external program.
type Launcher interface {
	Launch(ctx context.Context, argv []string) (Process, error)
}

// Process is a started program.
type Process interface {
	Wait() error
	Kill() error
}

// ExecLauncher starts programs with os/exec. The process is not bound
// to ctx: the browser outlives the call that opened it.
type ExecLauncher struct{}

func (ExecLauncher) Launch(ctx context.Context, argv []string) (Process, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	command := exec.Command(argv[0], argv[1:]...)
	if err := command.Start(); err != nil {
		return nil, err
	}
	return &execProcess{command: command}, nil
}

type execProcess struct {
	command *exec.Cmd
}

func (p *execProcess) Wait() error { return p.command.Wait() }

func (p *execProcess) Kill() error { return p.command.Process.Kill() }
