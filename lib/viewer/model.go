// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/streammesh/lib/desktop"
	"github.com/bureau-foundation/streammesh/lib/layout"
	"github.com/bureau-foundation/streammesh/lib/multiview"
	"github.com/bureau-foundation/streammesh/lib/sharelink"
	"github.com/bureau-foundation/streammesh/lib/tiles"
	"github.com/bureau-foundation/streammesh/lib/tui"
)

// noticeDuration is how long a status notice such as "Copied" stays.
const noticeDuration = 2 * time.Second

// Multiview is the part of multiview.Manager the viewer drives.
type Multiview interface {
	Open(ctx context.Context, channels []tiles.VisibleChannel, options multiview.OpenOptions) (multiview.Result, error)
	Close()
	State() multiview.State
	Result() (multiview.Result, bool)
	AudioMode() multiview.AudioMode
	SetAudioMode(ctx context.Context, mode multiview.AudioMode) error
	Focus(ctx context.Context, index int) error
}

var _ Multiview = (*multiview.Manager)(nil)

// Config wires a Model to its collaborators. Only Store is required.
type Config struct {
	Store *tiles.Store

	// Multiview enables the multiview keys when set.
	Multiview Multiview

	// ShareBase is the page URL share links are built on.
	ShareBase string

	// ParentHost and PrimaryOrigin are passed to multiview sessions.
	ParentHost    string
	PrimaryOrigin string

	// Clipboard receives copied share links. When nil the link is shown
	// in the status line instead.
	Clipboard tui.Clipboard

	// Fullscreen returns the target that shows one channel on its own.
	// Nil makes the fullscreen key a no-op.
	Fullscreen func(channel string) desktop.FullscreenTarget

	// CompactBreakpoint is the terminal width below which the stacked
	// catalog applies. Zero disables stacking.
	CompactBreakpoint int

	// Profile is the color profile for the help sheet. Zero is TrueColor.
	Profile termenv.Profile

	Theme  *tui.Theme
	Keys   *KeyMap
	Logger *slog.Logger
}

type focusRegion int

const (
	focusGrid focusRegion = iota
	focusEdit
	focusPicker
	focusHelp
)

// noticeFadeMsg clears the notice it was scheduled for. A newer notice
// has a higher sequence and survives older fades.
type noticeFadeMsg struct {
	sequence int
}

type multiviewOpenedMsg struct {
	result multiview.Result
	err    error
}

type multiviewClosedMsg struct{}

// multiviewErrorMsg carries failures of follow-up calls (audio, focus).
type multiviewErrorMsg struct {
	err error
}

type fullscreenResultMsg struct {
	channel string
	handled bool
	err     error
}

// Model is the bubbletea model for the grid viewer.
type Model struct {
	store      *tiles.Store
	multiview  Multiview
	clipboard  tui.Clipboard
	fullscreen func(string) desktop.FullscreenTarget
	logger     *slog.Logger

	shareBase     string
	parentHost    string
	primaryOrigin string
	breakpoint    int
	profile       termenv.Profile

	theme tui.Theme
	keys  KeyMap

	width, height int
	ready         bool

	focus  focusRegion
	cursor int // Focused slot.
	zoomed bool

	editor textinput.Model
	picker *tui.Picker

	helpLines  []string
	helpScroll int

	notice         string
	noticeFailure  bool
	noticeSequence int
	fade           func(sequence int) tea.Cmd
}

// NewModel returns a viewer over config.Store.
func NewModel(config Config) Model {
	theme := tui.DefaultTheme
	if config.Theme != nil {
		theme = *config.Theme
	}
	keys := DefaultKeyMap
	if config.Keys != nil {
		keys = *config.Keys
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	editor := textinput.New()
	editor.Prompt = "channel: "
	editor.Placeholder = "twitch channel name"
	editor.CharLimit = 64

	return Model{
		store:         config.Store,
		multiview:     config.Multiview,
		clipboard:     config.Clipboard,
		fullscreen:    config.Fullscreen,
		logger:        logger,
		shareBase:     config.ShareBase,
		parentHost:    config.ParentHost,
		primaryOrigin: config.PrimaryOrigin,
		breakpoint:    config.CompactBreakpoint,
		profile:       config.Profile,
		theme:         theme,
		keys:          keys,
		editor:        editor,
		fade:          fadeAfter,
	}
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Keys are routed by focus region; the
// grid handles everything when no overlay or editor is active.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.store.SetCompact(model.breakpoint > 0 && message.Width < model.breakpoint)
		model.clampCursor()
		if model.focus == focusHelp {
			model.renderHelp()
		}
		return model, nil

	case tea.KeyMsg:
		switch model.focus {
		case focusEdit:
			return model.handleEditKeys(message)
		case focusPicker:
			return model.handlePickerKeys(message)
		case focusHelp:
			return model.handleHelpKeys(message)
		}
		return model.handleGridKeys(message)

	case noticeFadeMsg:
		if message.sequence == model.noticeSequence {
			model.notice = ""
			model.noticeFailure = false
		}
		return model, nil

	case multiviewOpenedMsg:
		if message.err != nil {
			return model, model.fail(multiviewFailure(message.err))
		}
		return model, model.announce(fmt.Sprintf("Multiview open (%s, %d×%d)",
			message.result.Mode, message.result.Grid.Cols, message.result.Grid.Rows))

	case multiviewClosedMsg:
		return model, model.announce("Multiview closed")

	case multiviewErrorMsg:
		return model, model.fail(multiviewFailure(message.err))

	case fullscreenResultMsg:
		switch {
		case message.err != nil:
			return model, model.fail(fmt.Sprintf("Fullscreen failed: %v", message.err))
		case message.handled:
			return model, model.announce("Opened " + message.channel)
		}
		return model, nil
	}

	if model.focus == focusEdit {
		var command tea.Cmd
		model.editor, command = model.editor.Update(message)
		return model, command
	}
	return model, nil
}

func (model Model) handleGridKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := model.store.Snapshot()
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Help):
		model.focus = focusHelp
		model.helpScroll = 0
		model.renderHelp()

	case key.Matches(message, model.keys.Cancel):
		if model.zoomed {
			model.zoomed = false
		}

	case key.Matches(message, model.keys.Up):
		return model, model.moveCursor(-model.columns(state))
	case key.Matches(message, model.keys.Down):
		return model, model.moveCursor(model.columns(state))
	case key.Matches(message, model.keys.Left):
		return model, model.moveCursor(-1)
	case key.Matches(message, model.keys.Right):
		return model, model.moveCursor(1)
	case key.Matches(message, model.keys.Next):
		return model, model.cycleCursor(1)
	case key.Matches(message, model.keys.Previous):
		return model, model.cycleCursor(-1)

	case key.Matches(message, model.keys.Edit):
		model.focus = focusEdit
		model.editor.SetValue(state.Tiles[model.cursor].Channel)
		model.editor.CursorEnd()
		return model, model.editor.Focus()

	case key.Matches(message, model.keys.ToggleChat):
		model.store.ToggleChat(model.cursor)

	case key.Matches(message, model.keys.Clear):
		model.store.SetChannel(model.cursor, "")

	case key.Matches(message, model.keys.Layout):
		model.focus = focusPicker
		model.picker = tui.NewPicker("Layout", layoutOptions(model.store.Catalog()), state.Layout)

	case key.Matches(message, model.keys.More):
		model.store.SetActiveCount(state.ActiveCount + 1)

	case key.Matches(message, model.keys.Fewer):
		model.store.SetActiveCount(state.ActiveCount - 1)
		model.clampCursor()

	case key.Matches(message, model.keys.Zoom):
		model.zoomed = !model.zoomed

	case key.Matches(message, model.keys.Fullscreen):
		return model, model.requestFullscreen(state)

	case key.Matches(message, model.keys.Share):
		return model, model.copyShareLink(state)

	case key.Matches(message, model.keys.Multiview):
		return model, model.toggleMultiview(state)

	case key.Matches(message, model.keys.Audio):
		return model, model.toggleAudio()

	default:
		// Digits jump straight to a visible slot.
		if message.Type == tea.KeyRunes && len(message.Runes) == 1 {
			if digit := message.Runes[0]; digit >= '1' && digit <= '9' {
				slot := int(digit - '1')
				if slot < state.ActiveCount {
					model.cursor = slot
					return model, model.focusMultiview()
				}
			}
		}
	}
	return model, nil
}

func (model Model) handleEditKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit
	case message.Type == tea.KeyEnter:
		model.store.SetChannel(model.cursor, model.editor.Value())
		model.focus = focusGrid
		model.editor.Blur()
		return model, nil
	case key.Matches(message, model.keys.Cancel):
		model.focus = focusGrid
		model.editor.Blur()
		return model, nil
	}
	var command tea.Cmd
	model.editor, command = model.editor.Update(message)
	return model, command
}

func (model Model) handlePickerKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyCtrlC:
		return model, tea.Quit
	case tea.KeyEsc:
		model.focus = focusGrid
		model.picker = nil
	case tea.KeyEnter:
		if option, ok := model.picker.Selected(); ok {
			model.store.SetLayout(option.Value)
			model.clampCursor()
		}
		model.focus = focusGrid
		model.picker = nil
	case tea.KeyUp, tea.KeyShiftTab:
		model.picker.MoveUp()
	case tea.KeyDown, tea.KeyTab:
		model.picker.MoveDown()
	case tea.KeyBackspace:
		model.picker.Backspace()
	case tea.KeyRunes, tea.KeySpace:
		for _, r := range message.Runes {
			model.picker.Type(r)
		}
	}
	return model, nil
}

func (model Model) handleHelpKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit
	case key.Matches(message, model.keys.Cancel), key.Matches(message, model.keys.Help):
		model.focus = focusGrid
	case key.Matches(message, model.keys.Up):
		model.helpScroll = max(model.helpScroll-1, 0)
	case key.Matches(message, model.keys.Down):
		model.helpScroll = min(model.helpScroll+1, max(len(model.helpLines)-model.helpRows(), 0))
	}
	return model, nil
}

// columns is the number of tiles per row in the current presentation.
func (model Model) columns(state tiles.State) int {
	_, cols := model.geometry(state)
	return cols
}

func (model *Model) moveCursor(delta int) tea.Cmd {
	active := model.store.Snapshot().ActiveCount
	target := model.cursor + delta
	if target < 0 || target >= active {
		return nil
	}
	model.cursor = target
	return model.focusMultiview()
}

func (model *Model) cycleCursor(delta int) tea.Cmd {
	active := model.store.Snapshot().ActiveCount
	if active == 0 {
		return nil
	}
	model.cursor = ((model.cursor+delta)%active + active) % active
	return model.focusMultiview()
}

func (model *Model) clampCursor() {
	active := model.store.Snapshot().ActiveCount
	model.cursor = min(max(model.cursor, 0), max(active-1, 0))
}

// announce shows a transient notice and schedules its removal.
func (model *Model) announce(text string) tea.Cmd {
	model.notice = text
	model.noticeFailure = false
	model.noticeSequence++
	return model.fade(model.noticeSequence)
}

func (model *Model) fail(text string) tea.Cmd {
	command := model.announce(text)
	model.noticeFailure = true
	model.logger.Warn("viewer action failed", "detail", text)
	return command
}

func fadeAfter(sequence int) tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeFadeMsg{sequence: sequence}
	})
}

func (model *Model) copyShareLink(state tiles.State) tea.Cmd {
	link := sharelink.Encode(model.shareBase, state)
	if model.clipboard == nil {
		return model.announce(link)
	}
	model.clipboard.Copy(link)
	model.logger.Debug("share link copied", "link", link)
	return model.announce("Copied")
}

func (model *Model) requestFullscreen(state tiles.State) tea.Cmd {
	channel := strings.TrimSpace(state.Tiles[model.cursor].Channel)
	if model.fullscreen == nil || channel == "" {
		return nil
	}
	target := model.fullscreen(channel)
	return func() tea.Msg {
		handled, err := desktop.RequestFullscreen(context.Background(), target)
		return fullscreenResultMsg{channel: channel, handled: handled, err: err}
	}
}

func (model *Model) toggleMultiview(state tiles.State) tea.Cmd {
	if model.multiview == nil {
		return model.fail("Multiview is not available")
	}
	manager := model.multiview
	if manager.State() != multiview.StateClosed {
		return func() tea.Msg {
			manager.Close()
			return multiviewClosedMsg{}
		}
	}
	channels := state.Visible()
	start, _ := visibleIndex(state, model.cursor)
	options := multiview.OpenOptions{
		ParentHost:    model.parentHost,
		PrimaryOrigin: model.primaryOrigin,
		StartIndex:    start,
	}
	return func() tea.Msg {
		result, err := manager.Open(context.Background(), channels, options)
		return multiviewOpenedMsg{result: result, err: err}
	}
}

func (model *Model) toggleAudio() tea.Cmd {
	if model.multiview == nil {
		return nil
	}
	manager := model.multiview
	next := multiview.AudioMulti
	if manager.AudioMode() == multiview.AudioMulti {
		next = multiview.AudioSingle
	}
	command := model.announce("Audio: " + next.String())
	return tea.Batch(command, func() tea.Msg {
		if err := manager.SetAudioMode(context.Background(), next); err != nil {
			return multiviewErrorMsg{err: err}
		}
		return nil
	})
}

// focusMultiview moves the audible channel of an open session to the
// focused tile. Empty tiles have no multiview counterpart.
func (model *Model) focusMultiview() tea.Cmd {
	if model.multiview == nil || model.multiview.State() != multiview.StateOpen {
		return nil
	}
	index, ok := visibleIndex(model.store.Snapshot(), model.cursor)
	if !ok {
		return nil
	}
	manager := model.multiview
	return func() tea.Msg {
		if err := manager.Focus(context.Background(), index); err != nil {
			return multiviewErrorMsg{err: err}
		}
		return nil
	}
}

// visibleIndex maps a slot to its position in the visible projection,
// which skips empty tiles.
func visibleIndex(state tiles.State, slot int) (int, bool) {
	if slot < 0 || slot >= state.ActiveCount || strings.TrimSpace(state.Tiles[slot].Channel) == "" {
		return 0, false
	}
	index := 0
	for _, tile := range state.Tiles[:slot] {
		if strings.TrimSpace(tile.Channel) != "" {
			index++
		}
	}
	return index, true
}

func multiviewFailure(err error) string {
	switch {
	case errors.Is(err, multiview.ErrEmptyChannelList):
		return "Add a channel before opening multiview"
	case errors.Is(err, multiview.ErrPopupBlocked):
		return "Multiview blocked: no browser could be opened"
	case errors.Is(err, multiview.ErrPlatformUnsupported):
		return "Multiview is not supported here"
	}
	return fmt.Sprintf("Multiview: %v", err)
}

func layoutOptions(catalog *layout.Catalog) []tui.PickerOption {
	descriptors := catalog.Descriptors()
	options := make([]tui.PickerOption, len(descriptors))
	for index, descriptor := range descriptors {
		options[index] = tui.PickerOption{
			Label: fmt.Sprintf("%s  up to %d", descriptor.Label, descriptor.MaxTiles),
			Value: descriptor.Key,
		}
	}
	return options
}
