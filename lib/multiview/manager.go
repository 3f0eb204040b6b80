// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package multiview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/streammesh/lib/clock"
	"github.com/bureau-foundation/streammesh/lib/embed"
	"github.com/bureau-foundation/streammesh/lib/layout"
	"github.com/bureau-foundation/streammesh/lib/tiles"
)

// Defaults for Config fields left zero.
const (
	DefaultPlatformTimeout = 5 * time.Second
	DefaultFrameRate       = 30
)

// State is the manager's lifecycle state.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Mode names the capability a session was opened with.
type Mode string

const (
	ModeNative Mode = "native"
	ModeWindow Mode = "window"
	ModePopup  Mode = "popup"
)

// Config configures a Manager. Only Platform is required.
type Config struct {
	Platform Platform

	// Clock drives platform-call deadlines and composite frames.
	// Defaults to clock.Real().
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// SyncFunc returns the primary side's current channel projection.
	// It answers SYNC_REQUEST messages. When nil, the last channels
	// given to Open or UpdateChannels are re-sent.
	SyncFunc func() []tiles.VisibleChannel

	// AllowedOrigins are accepted as message senders in addition to the
	// session's primary origin.
	AllowedOrigins []string

	// PlatformTimeout bounds every platform call. Defaults to
	// DefaultPlatformTimeout.
	PlatformTimeout time.Duration

	// FrameRate is how often the composite is re-sent to a native
	// surface, in frames per second. Zero means DefaultFrameRate; a
	// negative value sends frames only when the composite changes.
	FrameRate int
}

// OpenOptions are per-open parameters.
type OpenOptions struct {
	// ParentHost is the embed parent parameter. Empty derives it from
	// PrimaryOrigin, falling back to "localhost".
	ParentHost string

	// PrimaryOrigin is the origin of the page that owns the session. It
	// is the target of outbound messages and is implicitly allowed as
	// a sender.
	PrimaryOrigin string

	// StartIndex is the initially focused channel, clamped into range.
	StartIndex int
}

// Result describes an open session.
type Result struct {
	Mode         Mode            `json:"mode"`
	Grid         layout.GridSize `json:"grid"`
	Width        int             `json:"width,omitempty"`
	Height       int             `json:"height,omitempty"`
	Channels     int             `json:"channels"`
	FocusedIndex int             `json:"focused_index"`
	Title        string          `json:"title"`
}

// Manager owns at most one multiview session. Create with NewManager.
type Manager struct {
	platform  Platform
	clock     clock.Clock
	logger    *slog.Logger
	syncFunc  func() []tiles.VisibleChannel
	allowed   []string
	timeout   time.Duration
	frameRate int

	mu        sync.Mutex
	state     State
	epoch     uint64
	session   *session
	result    Result
	channels  []tiles.VisibleChannel
	audioMode AudioMode
	focused   int
}

type session struct {
	options  OpenOptions
	mode     Mode
	surface  Surface
	native   NativeSurface
	revision string // guarded by Manager.mu

	frame atomic.Pointer[image.RGBA]
	gone  atomic.Bool

	ticker *clock.Ticker
	stop   context.CancelFunc
	done   chan struct{}
}

// NewManager returns a closed Manager.
func NewManager(config Config) *Manager {
	manager := &Manager{
		platform:  config.Platform,
		clock:     config.Clock,
		logger:    config.Logger,
		syncFunc:  config.SyncFunc,
		allowed:   slices.Clone(config.AllowedOrigins),
		timeout:   config.PlatformTimeout,
		frameRate: config.FrameRate,
	}
	if manager.clock == nil {
		manager.clock = clock.Real()
	}
	if manager.logger == nil {
		manager.logger = slog.Default()
	}
	if manager.timeout <= 0 {
		manager.timeout = DefaultPlatformTimeout
	}
	if manager.frameRate == 0 {
		manager.frameRate = DefaultFrameRate
	}
	return manager
}

// Capabilities reports which open paths the platform offers.
func (m *Manager) Capabilities() Capabilities {
	return Probe(m.platform)
}

// State returns the lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Result returns the open session's description, and false when no
// session is open.
func (m *Manager) Result() (Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result, m.state == StateOpen
}

// Channels returns the channel list the manager currently mirrors.
func (m *Manager) Channels() []tiles.VisibleChannel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.channels)
}

// AudioMode returns the current audio mode. It persists across
// sessions.
func (m *Manager) AudioMode() AudioMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.audioMode
}

// Open starts a session showing channels, closing any existing one
// first. See the package documentation for how the platform is probed.
func (m *Manager) Open(ctx context.Context, channels []tiles.VisibleChannel, options OpenOptions) (Result, error) {
	if len(channels) == 0 {
		return Result{}, ErrEmptyChannelList
	}
	channels = m.limitChannels(channels)
	if options.ParentHost == "" {
		options.ParentHost = embed.ParentHost(options.PrimaryOrigin)
	}

	m.mu.Lock()
	previous := m.session
	m.session = nil
	m.epoch++
	epoch := m.epoch
	m.state = StateOpening
	m.result = Result{}
	m.channels = channels
	m.focused = clampIndex(options.StartIndex, len(channels))
	current := &session{options: options}
	view := m.viewLocked()
	m.mu.Unlock()

	if previous != nil {
		m.teardown(previous, "replaced")
	}

	result, err := m.establish(ctx, current, view)

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		if err == nil {
			m.teardown(current, "superseded")
		}
		return Result{}, ErrOpenSuperseded
	}
	if err != nil {
		m.state = StateClosed
		m.mu.Unlock()
		m.logger.Warn("multiview open failed", "platform", m.platformName(), "error", err)
		return Result{}, err
	}
	if current.gone.Load() {
		m.state = StateClosed
		m.mu.Unlock()
		m.teardown(current, "closed during open")
		return Result{}, fmt.Errorf("surface closed while opening: %w", ErrOpenSuperseded)
	}
	m.session = current
	m.state = StateOpen
	m.result = result
	m.startFrames(current)
	m.mu.Unlock()

	m.logger.Info("multiview opened",
		"mode", result.Mode,
		"channels", result.Channels,
		"rows", result.Grid.Rows,
		"cols", result.Grid.Cols,
	)

	// Channels may have changed while the platform was busy.
	if err := m.push(ctx, false); err != nil {
		m.logger.Warn("multiview catch-up update failed", "error", err)
	}
	return result, nil
}

// establish walks the capability chain. It does not touch manager
// state beyond reading configuration.
func (m *Manager) establish(ctx context.Context, current *session, view sessionView) (Result, error) {
	revision, err := view.fingerprint()
	if err != nil {
		return Result{}, err
	}
	current.revision = revision

	title := fmt.Sprintf("StreamMesh: %d streams", len(view.Channels))
	result := Result{
		Grid:         view.Grid,
		Channels:     len(view.Channels),
		FocusedIndex: view.FocusedIndex,
		Title:        title,
	}

	if provider, ok := m.platform.(NativeSurfaceProvider); ok && provider.Constrained() {
		native, err := callPlatform(ctx, m, "open native surface",
			func(ctx context.Context) (NativeSurface, error) { return provider.OpenNative(ctx, title) },
			func(late NativeSurface) { closeQuietly(late) })
		if err == nil && native == nil {
			err = ErrPlatformUnsupported
		}
		if err == nil {
			current.mode = ModeNative
			current.native = native
			frame := Composite(view.Channels, view.Grid, view.AudioMode, view.FocusedIndex)
			current.frame.Store(frame)
			if err := m.pushFrame(ctx, current, frame); err != nil {
				m.logger.Warn("multiview first frame failed", "error", err)
			}
			result.Mode = ModeNative
			return result, nil
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		m.fallThrough(ModeNative, err)
	}

	width, height := WindowSize(view.Grid.Rows, view.Grid.Cols)
	result.Width, result.Height = width, height
	document, err := RenderDocument(m.documentFor(view, current.options, revision))
	if err != nil {
		return Result{}, err
	}

	if requester, ok := m.platform.(WindowRequester); ok {
		spec := WindowSpec{Width: width, Height: height, Title: DocumentTitle}
		surface, err := callPlatform(ctx, m, "request window",
			func(ctx context.Context) (Surface, error) { return requester.RequestWindow(ctx, spec) },
			func(late Surface) { closeQuietly(late) })
		if err == nil && surface == nil {
			err = ErrPlatformUnsupported
		}
		if err == nil {
			if err = m.attach(ctx, current, surface, document); err != nil {
				closeQuietly(surface)
			}
		}
		if err == nil {
			current.mode = ModeWindow
			result.Mode = ModeWindow
			return result, nil
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		m.fallThrough(ModeWindow, err)
	}

	opener, ok := m.platform.(PopupOpener)
	if !ok {
		return Result{}, fmt.Errorf("no multiview capability on platform %q: %w", m.platformName(), ErrPlatformUnsupported)
	}
	spec := WindowSpec{
		Name:     PopupName,
		Width:    width,
		Height:   height,
		Features: popupFeatures(width, height),
		Title:    DocumentTitle,
	}
	surface, err := callPlatform(ctx, m, "open popup",
		func(ctx context.Context) (Surface, error) { return opener.OpenPopup(ctx, spec) },
		func(late Surface) { closeQuietly(late) })
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if errors.Is(err, ErrPopupBlocked) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("opening popup: %w", err)
	}
	if surface == nil {
		return Result{}, ErrPopupBlocked
	}
	if err := m.attach(ctx, current, surface, document); err != nil {
		closeQuietly(surface)
		return Result{}, fmt.Errorf("writing popup document: %w", err)
	}
	current.mode = ModePopup
	result.Mode = ModePopup
	return result, nil
}

// attach wires surface into current and writes its first document.
func (m *Manager) attach(ctx context.Context, current *session, surface Surface, document []byte) error {
	current.surface = surface
	surface.OnTeardown(func() { m.surfaceGone(current) })
	return callPlatformErr(ctx, m, "write document", func(ctx context.Context) error {
		return surface.WriteDocument(ctx, document)
	})
}

func (m *Manager) fallThrough(mode Mode, err error) {
	if errors.Is(err, ErrPlatformUnsupported) {
		m.logger.Debug("multiview capability unavailable", "mode", mode, "error", err)
		return
	}
	m.logger.Warn("multiview capability failed, trying next", "mode", mode, "error", err)
}

// UpdateChannels replaces the mirrored channel list and pushes it to an
// open session. With no session open the list is only stored. A push
// whose content matches the last one is skipped. Delivery failures are
// logged and returned wrapped in ErrMessageDelivery; the session stays
// open either way.
func (m *Manager) UpdateChannels(ctx context.Context, channels []tiles.VisibleChannel) error {
	channels = m.limitChannels(channels)
	m.mu.Lock()
	m.channels = channels
	m.focused = clampIndex(m.focused, len(channels))
	m.mu.Unlock()
	return m.push(ctx, false)
}

// SetAudioMode changes the audio mode and refreshes an open session.
func (m *Manager) SetAudioMode(ctx context.Context, mode AudioMode) error {
	m.mu.Lock()
	m.audioMode = mode
	m.mu.Unlock()
	return m.push(ctx, false)
}

// Focus selects the audible channel for single-audio mode.
func (m *Manager) Focus(ctx context.Context, index int) error {
	m.mu.Lock()
	m.focused = clampIndex(index, len(m.channels))
	m.mu.Unlock()
	return m.push(ctx, false)
}

// HandleMessage processes a message sent by the surface. origin is the
// sender's origin as reported by the platform.
func (m *Manager) HandleMessage(ctx context.Context, origin string, data []byte) error {
	m.mu.Lock()
	allowed := m.allowedLocked(m.session)
	m.mu.Unlock()

	if !OriginAllowed(origin, allowed) {
		m.logger.Warn("multiview message from disallowed origin", "origin", origin)
		return fmt.Errorf("%w: %q", ErrOriginRejected, origin)
	}

	envelope, err := DecodeEnvelope(data)
	if err != nil {
		return err
	}

	switch envelope.Type {
	case MessageSyncRequest:
		if m.syncFunc != nil {
			channels := m.limitChannels(m.syncFunc())
			m.mu.Lock()
			m.channels = channels
			m.focused = clampIndex(m.focused, len(channels))
			m.mu.Unlock()
		}
		return m.push(ctx, true)
	default:
		m.logger.Debug("ignoring multiview message", "type", envelope.Type)
		return nil
	}
}

// push sends the current view to the open session. force skips the
// unchanged-revision check.
func (m *Manager) push(ctx context.Context, force bool) error {
	m.mu.Lock()
	current := m.session
	if current == nil || m.state != StateOpen {
		m.mu.Unlock()
		return nil
	}
	view := m.viewLocked()
	revision, err := view.fingerprint()
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if !force && revision == current.revision {
		m.mu.Unlock()
		return nil
	}
	current.revision = revision
	m.result.Grid = view.Grid
	m.result.Channels = len(view.Channels)
	m.result.FocusedIndex = view.FocusedIndex
	allowed := m.allowedLocked(current)
	m.mu.Unlock()

	if current.mode == ModeNative {
		frame := Composite(view.Channels, view.Grid, view.AudioMode, view.FocusedIndex)
		current.frame.Store(frame)
		if err := m.pushFrame(ctx, current, frame); err != nil {
			m.logger.Warn("multiview frame update failed", "error", err)
			return fmt.Errorf("%w: %w", ErrMessageDelivery, err)
		}
		return nil
	}

	update := newChannelsUpdate(view, revision)
	message, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", MessageChannelsUpdate, err)
	}
	// Messages are never posted to "*"; without a primary origin the
	// document is rewritten instead.
	target := current.options.PrimaryOrigin
	if target == "" {
		m.logger.Debug("multiview update not posted: no primary origin")
		err = ErrMessagingUnsupported
	} else {
		err = callPlatformErr(ctx, m, "post message", func(ctx context.Context) error {
			return current.surface.PostMessage(ctx, message, target)
		})
	}
	if errors.Is(err, ErrMessagingUnsupported) {
		document, renderErr := RenderDocument(Document{
			Channels:       view.Channels,
			Grid:           view.Grid,
			AudioMode:      view.AudioMode,
			FocusedIndex:   view.FocusedIndex,
			ParentHost:     current.options.ParentHost,
			PrimaryOrigin:  current.options.PrimaryOrigin,
			AllowedOrigins: allowed,
			Revision:       revision,
		})
		if renderErr != nil {
			return renderErr
		}
		err = callPlatformErr(ctx, m, "rewrite document", func(ctx context.Context) error {
			return current.surface.WriteDocument(ctx, document)
		})
	}
	if err != nil {
		m.logger.Warn("multiview update not delivered", "mode", current.mode, "error", err)
		return fmt.Errorf("%w: %w", ErrMessageDelivery, err)
	}
	m.logger.Debug("multiview update delivered", "revision", revision, "channels", len(view.Channels))
	return nil
}

// Close ends the session. It never fails and always leaves the manager
// closed; platform errors during teardown are logged. An Open still
// waiting on the platform returns ErrOpenSuperseded.
func (m *Manager) Close() {
	m.mu.Lock()
	current := m.session
	m.session = nil
	m.epoch++
	m.state = StateClosed
	m.result = Result{}
	m.mu.Unlock()

	if current != nil {
		m.teardown(current, "closed")
	}
}

// surfaceGone runs when the platform reports the window went away.
func (m *Manager) surfaceGone(current *session) {
	current.gone.Store(true)
	m.mu.Lock()
	if m.session != current {
		m.mu.Unlock()
		return
	}
	m.session = nil
	m.state = StateClosed
	m.result = Result{}
	m.mu.Unlock()

	current.stopFrames()
	m.logger.Info("multiview surface closed by platform", "mode", current.mode)
}

// teardown releases a session that is no longer installed.
func (m *Manager) teardown(current *session, reason string) {
	current.stopFrames()
	ctx := context.Background()
	if current.native != nil {
		if err := callPlatformErr(ctx, m, "close native surface", func(context.Context) error {
			return current.native.Close()
		}); err != nil {
			m.logger.Warn("multiview teardown error", "mode", current.mode, "error", err)
		}
	}
	if current.surface != nil && !current.gone.Load() {
		if err := callPlatformErr(ctx, m, "close surface", func(context.Context) error {
			return current.surface.Close()
		}); err != nil {
			m.logger.Warn("multiview teardown error", "mode", current.mode, "error", err)
		}
	}
	m.logger.Debug("multiview session released", "mode", current.mode, "reason", reason)
}

// startFrames begins periodic composite delivery for a native session.
// Called with m.mu held.
func (m *Manager) startFrames(current *session) {
	if current.mode != ModeNative || m.frameRate <= 0 {
		return
	}
	loopCtx, stop := context.WithCancel(context.Background())
	current.ticker = m.clock.NewTicker(time.Second / time.Duration(m.frameRate))
	current.stop = stop
	current.done = make(chan struct{})

	go func() {
		defer close(current.done)
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-current.ticker.C:
				frame := current.frame.Load()
				if frame == nil {
					continue
				}
				if err := m.pushFrame(loopCtx, current, frame); err != nil && loopCtx.Err() == nil {
					m.logger.Debug("multiview frame dropped", "error", err)
				}
			}
		}
	}()
}

func (s *session) stopFrames() {
	if s.stop == nil {
		return
	}
	s.stop()
	s.ticker.Stop()
	<-s.done
}

func (m *Manager) pushFrame(ctx context.Context, current *session, frame *image.RGBA) error {
	return callPlatformErr(ctx, m, "push frame", func(ctx context.Context) error {
		return current.native.PushFrame(ctx, frame)
	})
}

// viewLocked snapshots what the surface should show.
func (m *Manager) viewLocked() sessionView {
	return sessionView{
		Channels:     slices.Clone(m.channels),
		Grid:         layout.Solve(len(m.channels)),
		AudioMode:    m.audioMode,
		FocusedIndex: m.focused,
	}
}

func (m *Manager) allowedLocked(current *session) []string {
	allowed := slices.Clone(m.allowed)
	if current != nil && current.options.PrimaryOrigin != "" {
		allowed = append(allowed, current.options.PrimaryOrigin)
	}
	return allowed
}

func (m *Manager) documentFor(view sessionView, options OpenOptions, revision string) Document {
	allowed := slices.Clone(m.allowed)
	if options.PrimaryOrigin != "" {
		allowed = append(allowed, options.PrimaryOrigin)
	}
	return Document{
		Channels:       view.Channels,
		Grid:           view.Grid,
		AudioMode:      view.AudioMode,
		FocusedIndex:   view.FocusedIndex,
		ParentHost:     options.ParentHost,
		PrimaryOrigin:  options.PrimaryOrigin,
		AllowedOrigins: allowed,
		Revision:       revision,
	}
}

func (m *Manager) limitChannels(channels []tiles.VisibleChannel) []tiles.VisibleChannel {
	if len(channels) > layout.MaxMultiviewChannels {
		m.logger.Warn("dropping channels beyond multiview maximum",
			"given", len(channels), "max", layout.MaxMultiviewChannels)
		channels = channels[:layout.MaxMultiviewChannels]
	}
	return slices.Clone(channels)
}

func (m *Manager) platformName() string {
	if m.platform == nil {
		return "none"
	}
	return m.platform.Name()
}

func clampIndex(index, length int) int {
	if length <= 0 {
		return 0
	}
	return min(max(index, 0), length-1)
}

func closeQuietly(closer interface{ Close() error }) {
	if closer != nil {
		_ = closer.Close()
	}
}
