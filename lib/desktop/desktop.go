// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package desktop adapts a workstation (a document directory plus a
// browser launcher) to the multiview platform interfaces.
//
// The desktop has no window requester and no native always-on-top
// surface, so the multiview manager always lands on the popup path.
// A popup here is an HTML file written into the document directory and
// opened in the user's browser. The browser page cannot receive
// messages from this process, so PostMessage reports
// multiview.ErrMessagingUnsupported and the manager falls back to
// rewriting the document.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/bureau-foundation/streammesh/lib/multiview"
)

// Config holds the inputs for a desktop platform.
type Config struct {
	// DocumentDir receives the rendered multiview documents. Created
	// on first use.
	DocumentDir string

	// Browser is the absolute path of the command that opens a URL,
	// typically xdg-open or open. Empty means no browser is available
	// and every popup is reported as blocked.
	Browser string

	// BrowserArgs are inserted between Browser and the URL, for
	// example ["--new-window"].
	BrowserArgs []string

	// TrackProcess ties the surface lifetime to the launched process:
	// when it exits, the surface tears down. Leave false for openers
	// like xdg-open that hand the URL to a running browser and exit
	// immediately.
	TrackProcess bool

	// Launcher starts browser processes. Nil uses os/exec.
	Launcher Launcher

	Logger *slog.Logger
}

// Platform is the desktop implementation of multiview.Platform and
// multiview.PopupOpener.
type Platform struct {
	config   Config
	launcher Launcher
	logger   *slog.Logger

	// opened numbers surfaces so each one owns its own file.
	opened atomic.Uint64
}

var (
	_ multiview.Platform    = (*Platform)(nil)
	_ multiview.PopupOpener = (*Platform)(nil)
)

// New returns a desktop platform.
func New(config Config) *Platform {
	launcher := config.Launcher
	if launcher == nil {
		launcher = ExecLauncher{}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Platform{config: config, launcher: launcher, logger: logger}
}

// Name identifies the platform in logs and capability reports.
func (p *Platform) Name() string { return "desktop" }

// OpenPopup prepares a document surface. The browser is launched when
// the first document is written, because there is nothing to show
// before that.
//
// Each surface writes its own file: the first is named after the
// window spec (DocumentPath), later ones add a "-N" suffix. A surface
// being torn down therefore never removes the document of a newer
// session.
func (p *Platform) OpenPopup(ctx context.Context, spec multiview.WindowSpec) (multiview.Surface, error) {
	if p.config.Browser == "" {
		return nil, fmt.Errorf("no browser configured: %w", multiview.ErrPopupBlocked)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(p.config.DocumentDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating document directory: %w", err)
	}
	name := spec.Name
	if name == "" {
		name = multiview.PopupName
	}
	if sequence := p.opened.Add(1); sequence > 1 {
		name = fmt.Sprintf("%s-%d", name, sequence)
	}
	return &documentSurface{
		platform: p,
		path:     DocumentPath(p.config.DocumentDir, name),
	}, nil
}

// DocumentPath is where the first popup named name is written.
func DocumentPath(directory, name string) string {
	return filepath.Join(directory, name+".html")
}

// DocumentURL returns the file URL a browser uses to open path.
func DocumentURL(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

// documentSurface is a browser tab showing a file on disk.
type documentSurface struct {
	platform *Platform
	path     string

	mutex     sync.Mutex
	process   Process
	launched  bool
	closed    bool
	teardowns []func()
}

func (s *documentSurface) WriteDocument(ctx context.Context, document []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return errors.New("document surface closed")
	}
	if err := writeFileAtomic(s.path, document); err != nil {
		return err
	}
	if s.launched {
		s.platform.logger.Info("multiview document rewritten; reload the browser tab to apply", "path", s.path)
		return nil
	}

	argv := append([]string{s.platform.config.Browser}, s.platform.config.BrowserArgs...)
	argv = append(argv, DocumentURL(s.path))
	process, err := s.platform.launcher.Launch(ctx, argv)
	if err != nil {
		return fmt.Errorf("launching browser: %w: %w", multiview.ErrPopupBlocked, err)
	}
	s.launched = true
	s.process = process
	s.platform.logger.Info("multiview document opened", "path", s.path, "browser", s.platform.config.Browser)
	if s.platform.config.TrackProcess {
		go s.watch(process)
	} else {
		// Openers like xdg-open exit at once; reap them.
		go func() { _ = process.Wait() }()
	}
	return nil
}

// watch removes the document and fires the teardown callbacks when a
// tracked browser exits.
func (s *documentSurface) watch(process Process) {
	err := process.Wait()
	s.mutex.Lock()
	if s.closed || s.process != process {
		s.mutex.Unlock()
		return
	}
	s.closed = true
	callbacks := s.teardowns
	s.teardowns = nil
	s.mutex.Unlock()

	s.platform.logger.Info("multiview browser exited", "path", s.path, "error", err)
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.platform.logger.Warn("removing multiview document", "path", s.path, "error", err)
	}
	for _, callback := range callbacks {
		callback()
	}
}

func (s *documentSurface) PostMessage(context.Context, []byte, string) error {
	return multiview.ErrMessagingUnsupported
}

func (s *documentSurface) OnTeardown(callback func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.teardowns = append(s.teardowns, callback)
}

// Close removes the document and stops a tracked browser. Teardown
// callbacks do not run: the caller initiated the close.
func (s *documentSurface) Close() error {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return nil
	}
	s.closed = true
	s.teardowns = nil
	process := s.process
	s.mutex.Unlock()

	var problems []error
	if process != nil && s.platform.config.TrackProcess {
		if err := process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			problems = append(problems, fmt.Errorf("stopping browser: %w", err))
		}
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		problems = append(problems, err)
	}
	return errors.Join(problems...)
}

// writeFileAtomic replaces path with data via a temporary file in the
// same directory, so a browser reload never sees a half-written page.
func writeFileAtomic(path string, data []byte) error {
	temp, err := os.CreateTemp(filepath.Dir(path), ".multiview-*.html")
	if err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	if _, err := temp.Write(data); err != nil {
		temp.Close()
		os.Remove(temp.Name())
		return fmt.Errorf("writing document: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(temp.Name())
		return fmt.Errorf("writing document: %w", err)
	}
	if err := os.Rename(temp.Name(), path); err != nil {
		os.Remove(temp.Name())
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}
