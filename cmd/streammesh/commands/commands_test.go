// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/streammesh/cmd/streammesh/cli"
	"github.com/bureau-foundation/streammesh/lib/desktop"
	"github.com/bureau-foundation/streammesh/lib/layout"
	"github.com/bureau-foundation/streammesh/lib/multiview"
	"github.com/bureau-foundation/streammesh/lib/testutil"
)

type fakeProcess struct {
	exited chan struct{}
	once   sync.Once
}

func (p *fakeProcess) Wait() error {
	<-p.exited
	return nil
}

func (p *fakeProcess) Kill() error {
	p.exit()
	return nil
}

func (p *fakeProcess) exit() { p.once.Do(func() { close(p.exited) }) }

type fakeLauncher struct {
	mutex     sync.Mutex
	calls     [][]string
	processes chan *fakeProcess
}

func newFakeLauncher() *fakeLauncher {
	return &fakeLauncher{processes: make(chan *fakeProcess, 4)}
}

func (l *fakeLauncher) Launch(_ context.Context, argv []string) (desktop.Process, error) {
	l.mutex.Lock()
	l.calls = append(l.calls, append([]string(nil), argv...))
	l.mutex.Unlock()
	process := &fakeProcess{exited: make(chan struct{})}
	l.processes <- process
	return process, nil
}

func (l *fakeLauncher) lastCall() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if len(l.calls) == 0 {
		return nil
	}
	return l.calls[len(l.calls)-1]
}

// harness runs commands against a buffer with an isolated config.
type harness struct {
	t          *testing.T
	stdout     bytes.Buffer
	launcher   *fakeLauncher
	configPath string
	documents  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("STREAMMESH_CONFIG", "")
	directory := t.TempDir()
	browser := filepath.Join(directory, "fake-browser")
	if err := os.WriteFile(browser, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	h := &harness{
		t:          t,
		launcher:   newFakeLauncher(),
		configPath: filepath.Join(directory, "streammesh.yaml"),
		documents:  filepath.Join(directory, "documents"),
	}
	config := "base_url: https://streammesh.example/watch\n" +
		"multiview:\n" +
		"  browser: " + browser + "\n" +
		"  document_dir: " + h.documents + "\n" +
		"  timeout: 2s\n"
	if err := os.WriteFile(h.configPath, []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}
	return h
}

func (h *harness) run(args ...string) (string, error) {
	h.stdout.Reset()
	root := newRoot(environment{
		stdout:   &h.stdout,
		launcher: h.launcher,
		logger:   func(slog.Level) *slog.Logger { return testutil.Logger(h.t) },
	})
	root.Output = &h.stdout
	err := root.Execute(args)
	return h.stdout.String(), err
}

func requireCategory(t *testing.T, err error, want cli.ErrorCategory) {
	t.Helper()
	var toolErr *cli.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error = %v, want a %s ToolError", err, want)
	}
	if toolErr.Category != want {
		t.Fatalf("category = %q, want %q (error: %v)", toolErr.Category, want, err)
	}
}

func TestShareExample(t *testing.T) {
	h := newHarness(t)
	got, err := h.run("share", "--config", h.configPath, "--layout", "2x2", "--count", "3", "ninja", "shroud")
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	want := "https://streammesh.example/watch?layout=2x2&streams=ninja%2Cshroud&count=3&chat=111111111\n"
	if got != want {
		t.Errorf("share output = %q, want %q", got, want)
	}
}

func TestShareDefaultsWithoutConfig(t *testing.T) {
	h := newHarness(t)
	got, err := h.run("share", "ninja")
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	// One channel in the default 2x1 layout still shows two tiles.
	want := "http://localhost:5173/?layout=2x1&streams=ninja&count=2&chat=111111111\n"
	if got != want {
		t.Errorf("share output = %q, want %q", got, want)
	}
}

func TestShareChatMaskAndBase(t *testing.T) {
	h := newHarness(t)
	got, err := h.run("share", "--base", "https://other.example/", "--chat", "01", "ninja", "shroud")
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if !strings.HasPrefix(got, "https://other.example/?") {
		t.Errorf("share output = %q, want the --base prefix", got)
	}
	if !strings.Contains(got, "chat=011111111") {
		t.Errorf("share output = %q, want chat=011111111", got)
	}
}

func TestShareJSON(t *testing.T) {
	h := newHarness(t)
	got, err := h.run("share", "--json", "--layout", "3x3", "a", "b", "c", "d", "e")
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	var result shareResult
	if err := json.Unmarshal([]byte(got), &result); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, got)
	}
	if result.State.Layout != "3x3" || result.State.ActiveCount != 5 || len(result.State.Visible) != 5 {
		t.Errorf("state = %+v, want 3x3 with five visible channels", result.State)
	}
	if result.State.Label != "3×3" || result.State.MaxTiles != 9 {
		t.Errorf("label = %q max = %d, want 3×3 and 9", result.State.Label, result.State.MaxTiles)
	}
	if len(result.State.Fingerprint) != 16 {
		t.Errorf("fingerprint = %q, want 16 hex characters", result.State.Fingerprint)
	}
	if !strings.HasSuffix(result.URL, "?"+result.Query) {
		t.Errorf("url = %q does not end with query %q", result.URL, result.Query)
	}
}

func TestShareValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown layout", []string{"--layout", "4x4", "a"}},
		{"bad chat mask", []string{"--chat", "1x", "a"}},
		{"long chat mask", []string{"--chat", "1111111111", "a"}},
		{"count out of range", []string{"--count", "12", "a"}},
		{"too many channels", []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.run(append([]string{"share"}, test.args...)...)
			requireCategory(t, err, cli.CategoryValidation)
		})
	}
}

func TestShareMissingConfig(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("share", "--config", filepath.Join(t.TempDir(), "absent.yaml"), "a")
	requireCategory(t, err, cli.CategoryNotFound)
}

func TestShareFromURLOverridesChannels(t *testing.T) {
	h := newHarness(t)
	got, err := h.run("share", "--url", "http://x/?layout=2x2&streams=a,b,c&count=3&chat=000", "d")
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	// The channel argument replaces the link's channels; layout and
	// chat flags survive.
	want := "http://localhost:5173/?layout=2x2&streams=d&count=2&chat=000000000\n"
	if got != want {
		t.Errorf("share output = %q, want %q", got, want)
	}
}

const presets = `{
  // Saved walls.
  "presets": {
    "finals": {
      "layout": "2x2",
      "channels": ["caster", "red", "blue"],
      "chat": [true, false, false],
    },
    "duo": {"layout": "2x1", "channels": ["a", "b"]},
  },
}`

func writePresets(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(presets), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSharePreset(t *testing.T) {
	h := newHarness(t)

	byFileName := writePresets(t, "finals.jsonc")
	got, err := h.run("share", "--preset", byFileName)
	if err != nil {
		t.Fatalf("share --preset: %v", err)
	}
	want := "http://localhost:5173/?layout=2x2&streams=caster%2Cred%2Cblue&count=3&chat=100111111\n"
	if got != want {
		t.Errorf("share output = %q, want %q", got, want)
	}

	got, err = h.run("share", "--preset", byFileName, "--preset-name", "duo")
	if err != nil {
		t.Fatalf("share --preset-name: %v", err)
	}
	if !strings.Contains(got, "layout=2x1&streams=a%2Cb&count=2") {
		t.Errorf("share output = %q, want the duo preset", got)
	}

	_, err = h.run("share", "--preset", writePresets(t, "walls.jsonc"))
	requireCategory(t, err, cli.CategoryNotFound)
}

func TestDecodeText(t *testing.T) {
	h := newHarness(t)
	got, err := h.run("decode", "https://streammesh.example/?layout=2x2&streams=ninja,shroud&count=3&chat=101")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, want := range []string{
		"Layout: 2x2 (2×2)",
		"Tiles:  3/4",
		"#1  ninja",
		"#2  shroud",
		"chat off",
		"#3  (empty)",
		"Canonical: ?layout=2x2&streams=ninja%2Cshroud&count=3&chat=101000000",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("decode output missing %q:\n%s", want, got)
		}
	}
}

func TestDecodeCheck(t *testing.T) {
	h := newHarness(t)
	canonical := "http://localhost:5173/?layout=2x2&streams=ninja%2Cshroud&count=3&chat=111111111"
	if _, err := h.run("decode", "--check", canonical); err != nil {
		t.Errorf("decode --check canonical: %v", err)
	}

	_, err := h.run("decode", "--check", "http://localhost:5173/?layout=bogus")
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Errorf("decode --check non-canonical error = %v, want exit code 1", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	h := newHarness(t)
	got, err := h.run("decode", "--json", "?layout=9x9&count=abc")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var result decodeResult
	if err := json.Unmarshal([]byte(got), &result); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if result.State.Layout != layout.DefaultKey {
		t.Errorf("layout = %q, want the default %q", result.State.Layout, layout.DefaultKey)
	}
	if result.IsCanonical {
		t.Error("is_canonical = true for a malformed link")
	}
	if len(result.State.Visible) != 0 {
		t.Errorf("visible = %v, want none", result.State.Visible)
	}
}

func TestDecodeArguments(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("decode")
	requireCategory(t, err, cli.CategoryValidation)
}

func TestLayouts(t *testing.T) {
	h := newHarness(t)
	got, err := h.run("layouts")
	if err != nil {
		t.Fatalf("layouts: %v", err)
	}
	for _, key := range layout.Grid.Keys() {
		if !strings.Contains(got, key) {
			t.Errorf("layouts output missing %q:\n%s", key, got)
		}
	}
	if !strings.Contains(got, "2x1 (default)") {
		t.Errorf("layouts output does not mark the default:\n%s", got)
	}

	got, err = h.run("layouts", "--stacked", "--json")
	if err != nil {
		t.Fatalf("layouts --stacked: %v", err)
	}
	var descriptors []layout.Descriptor
	if err := json.Unmarshal([]byte(got), &descriptors); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	for _, descriptor := range descriptors {
		if descriptor.Cols != 1 || descriptor.MaxTiles > layout.MaxStackedTiles {
			t.Errorf("stacked descriptor %+v, want one column and at most %d tiles", descriptor, layout.MaxStackedTiles)
		}
	}
}

func TestEmbed(t *testing.T) {
	h := newHarness(t)
	got, err := h.run("embed", "--config", h.configPath, "ninja")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	for _, want := range []string{
		"player: https://player.twitch.tv/?channel=ninja&parent=streammesh.example&muted=true&autoplay=true",
		"chat:   https://www.twitch.tv/embed/ninja/chat?parent=streammesh.example",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("embed output missing %q:\n%s", want, got)
		}
	}

	got, err = h.run("embed", "--json", "--parent", "example.com", "--unmuted", "a", "b")
	if err != nil {
		t.Fatalf("embed --json: %v", err)
	}
	var results []embedResult
	if err := json.Unmarshal([]byte(got), &results); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(results) != 2 || !strings.Contains(results[1].Player, "channel=b&parent=example.com&muted=false") {
		t.Errorf("results = %+v, want two unmuted embeds for example.com", results)
	}

	_, err = h.run("embed")
	requireCategory(t, err, cli.CategoryValidation)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	got, err := h.run("version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(got, "streammesh ") {
		t.Errorf("version output = %q", got)
	}

	got, err = h.run("version", "--json")
	if err != nil {
		t.Fatalf("version --json: %v", err)
	}
	if !strings.Contains(got, `"go_version"`) {
		t.Errorf("version --json output = %q", got)
	}
}

func TestMultiviewDetach(t *testing.T) {
	h := newHarness(t)
	got, err := h.run("multiview", "--config", h.configPath, "--detach", "--json", "--audio", "multi", "--focus", "2", "ninja", "shroud", "xqc")
	if err != nil {
		t.Fatalf("multiview: %v", err)
	}
	var result multiviewResult
	if err := json.Unmarshal([]byte(got), &result); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, got)
	}
	if result.Mode != multiview.ModePopup || result.Channels != 3 || result.FocusedIndex != 1 || result.Audio != "multi" {
		t.Errorf("result = %+v, want popup, 3 channels, focus 1, audio multi", result)
	}

	document := filepath.Join(h.documents, multiview.PopupName+".html")
	content, err := os.ReadFile(document)
	if err != nil {
		t.Fatalf("document not left in place: %v", err)
	}
	// Multi audio plays every channel.
	if got := strings.Count(string(content), "muted=false"); got != 3 {
		t.Errorf("audible players = %d, want 3", got)
	}
	if strings.Contains(string(content), "muted=true") {
		t.Error("document mutes a player in multi audio mode")
	}
	call := h.launcher.lastCall()
	if len(call) != 2 || call[1] != desktop.DocumentURL(document) {
		t.Errorf("browser argv = %v, want [browser %s]", call, desktop.DocumentURL(document))
	}
}

func TestMultiviewTrackedBrowserExit(t *testing.T) {
	h := newHarness(t)
	done := make(chan error, 1)
	go func() {
		_, err := h.run("multiview", "--config", h.configPath, "--track", "ninja")
		done <- err
	}()

	process := testutil.RequireReceive(t, h.launcher.processes, 5*time.Second, "waiting for browser launch")
	process.exit()

	if err := testutil.RequireReceive(t, done, 5*time.Second, "waiting for multiview to return"); err != nil {
		t.Fatalf("multiview: %v", err)
	}
	if _, err := os.Stat(filepath.Join(h.documents, multiview.PopupName+".html")); !os.IsNotExist(err) {
		t.Errorf("document stat error = %v, want removed", err)
	}
}

func TestMultiviewWithoutChannels(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("multiview", "--config", h.configPath, "--detach")
	requireCategory(t, err, cli.CategoryValidation)
}

func TestMultiviewBadAudio(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("multiview", "--config", h.configPath, "--audio", "surround", "ninja")
	requireCategory(t, err, cli.CategoryValidation)
}

func TestOpenFailure(t *testing.T) {
	tests := []struct {
		err      error
		category cli.ErrorCategory
	}{
		{multiview.ErrEmptyChannelList, cli.CategoryValidation},
		{multiview.ErrPopupBlocked, cli.CategoryTransient},
		{multiview.ErrPlatformUnsupported, cli.CategoryTransient},
		{errors.New("disk full"), cli.CategoryInternal},
	}
	for _, test := range tests {
		requireCategory(t, openFailure(test.err), test.category)
	}

	var exitErr *cli.ExitError
	if !errors.As(openFailure(context.Canceled), &exitErr) || exitErr.Code != 130 {
		t.Errorf("openFailure(context.Canceled) = %v, want exit code 130", openFailure(context.Canceled))
	}
}

func TestUnknownCommandSuggests(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("mutliview")
	if err == nil || !strings.Contains(err.Error(), `did you mean "multiview"`) {
		t.Errorf("error = %v, want a multiview suggestion", err)
	}
}
