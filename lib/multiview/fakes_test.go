// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package multiview

import (
	"context"
	"image"
	"sync"

	"github.com/bureau-foundation/streammesh/lib/tiles"
)

type postedMessage struct {
	data   []byte
	target string
}

// fakeSurface records everything written to it. Close behaves like a
// real window: it runs the teardown callbacks, unless closeErr is set,
// in which case the window refuses to close.
type fakeSurface struct {
	mu        sync.Mutex
	documents [][]byte
	messages  []postedMessage
	teardowns []func()
	closed    int
	postErr   error
	writeErr  error
	closeErr  error
	posted    chan postedMessage
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{posted: make(chan postedMessage, 64)}
}

func (s *fakeSurface) WriteDocument(_ context.Context, document []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.documents = append(s.documents, append([]byte(nil), document...))
	return nil
}

func (s *fakeSurface) PostMessage(_ context.Context, message []byte, target string) error {
	s.mu.Lock()
	err := s.postErr
	if err == nil {
		posted := postedMessage{data: append([]byte(nil), message...), target: target}
		s.messages = append(s.messages, posted)
		s.posted <- posted
	}
	s.mu.Unlock()
	return err
}

func (s *fakeSurface) OnTeardown(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardowns = append(s.teardowns, fn)
}

func (s *fakeSurface) Close() error {
	s.mu.Lock()
	s.closed++
	err := s.closeErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.fireTeardown()
	return nil
}

func (s *fakeSurface) fireTeardown() {
	s.mu.Lock()
	callbacks := s.teardowns
	s.teardowns = nil
	s.mu.Unlock()
	for _, callback := range callbacks {
		callback()
	}
}

func (s *fakeSurface) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *fakeSurface) documentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.documents)
}

func (s *fakeSurface) lastDocument() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.documents) == 0 {
		return ""
	}
	return string(s.documents[len(s.documents)-1])
}

func (s *fakeSurface) messageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *fakeSurface) setCloseErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeErr = err
}

func (s *fakeSurface) setPostErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postErr = err
}

// popupPlatform offers only popups.
type popupPlatform struct {
	mu    sync.Mutex
	specs []WindowSpec
	open  func(ctx context.Context, spec WindowSpec) (Surface, error)
}

func (p *popupPlatform) Name() string { return "fake-popup" }

func (p *popupPlatform) OpenPopup(ctx context.Context, spec WindowSpec) (Surface, error) {
	p.mu.Lock()
	p.specs = append(p.specs, spec)
	p.mu.Unlock()
	return p.open(ctx, spec)
}

func (p *popupPlatform) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.specs)
}

// surfacesFrom returns an opener handing out fresh fake surfaces and a
// function listing them.
func surfacesFrom() (func(context.Context, WindowSpec) (Surface, error), func() []*fakeSurface) {
	var mu sync.Mutex
	var surfaces []*fakeSurface
	open := func(context.Context, WindowSpec) (Surface, error) {
		surface := newFakeSurface()
		mu.Lock()
		surfaces = append(surfaces, surface)
		mu.Unlock()
		return surface, nil
	}
	list := func() []*fakeSurface {
		mu.Lock()
		defer mu.Unlock()
		return append([]*fakeSurface(nil), surfaces...)
	}
	return open, list
}

// windowPlatform offers document windows and popups.
type windowPlatform struct {
	*popupPlatform
	request func(ctx context.Context, spec WindowSpec) (Surface, error)
}

func (p *windowPlatform) Name() string { return "fake-window" }

func (p *windowPlatform) RequestWindow(ctx context.Context, spec WindowSpec) (Surface, error) {
	return p.request(ctx, spec)
}

// nativePlatform offers a native element and popups.
type nativePlatform struct {
	*popupPlatform
	constrained bool
	native      *fakeNative
	titles      []string
}

func (p *nativePlatform) Name() string { return "fake-native" }

func (p *nativePlatform) Constrained() bool { return p.constrained }

func (p *nativePlatform) OpenNative(_ context.Context, title string) (NativeSurface, error) {
	p.titles = append(p.titles, title)
	return p.native, nil
}

type fakeNative struct {
	mu     sync.Mutex
	frames []image.Image
	closed int
	pushed chan image.Image
}

func newFakeNative() *fakeNative {
	return &fakeNative{pushed: make(chan image.Image, 256)}
}

func (n *fakeNative) PushFrame(_ context.Context, frame image.Image) error {
	n.mu.Lock()
	n.frames = append(n.frames, frame)
	n.mu.Unlock()
	select {
	case n.pushed <- frame:
	default:
	}
	return nil
}

func (n *fakeNative) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed++
	return nil
}

func (n *fakeNative) frameCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.frames)
}

// bareplatform has no capabilities at all.
type barePlatform struct{}

func (barePlatform) Name() string { return "bare" }

func channelsNamed(names ...string) []tiles.VisibleChannel {
	channels := make([]tiles.VisibleChannel, len(names))
	for index, name := range names {
		channels[index] = tiles.VisibleChannel{Channel: name, ShowChat: true}
	}
	return channels
}
