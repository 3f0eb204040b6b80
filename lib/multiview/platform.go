// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package multiview

import (
	"context"
	"fmt"
	"image"
)

// Platform is the host environment. It carries no required methods;
// capabilities are discovered by asserting the optional interfaces
// below, the same way io.Writer implementations may also be
// io.StringWriter.
type Platform interface {
	// Name identifies the platform in logs.
	Name() string
}

// NativeSurfaceProvider is implemented by platforms with a native
// picture-in-picture element that takes a video frame source.
type NativeSurfaceProvider interface {
	// Constrained reports that the platform cannot open document
	// windows or popups, so the native element is the only option.
	// Unconstrained platforms skip the native path.
	Constrained() bool

	// OpenNative prepares the native element. title is shown by the
	// platform's picture-in-picture chrome.
	OpenNative(ctx context.Context, title string) (NativeSurface, error)
}

// NativeSurface receives composite frames.
type NativeSurface interface {
	PushFrame(ctx context.Context, frame image.Image) error
	Close() error
}

// WindowRequester is implemented by platforms that can open an
// always-on-top document window.
type WindowRequester interface {
	RequestWindow(ctx context.Context, spec WindowSpec) (Surface, error)
}

// PopupOpener is implemented by platforms that can open an ordinary
// named popup window. A nil surface with a nil error means the popup
// was blocked.
type PopupOpener interface {
	OpenPopup(ctx context.Context, spec WindowSpec) (Surface, error)
}

// Surface is an open auxiliary window.
type Surface interface {
	// WriteDocument replaces the window's content.
	WriteDocument(ctx context.Context, document []byte) error

	// PostMessage delivers a JSON message to a document of
	// targetOrigin. The manager never passes a wildcard.
	// Implementations that cannot deliver messages return
	// ErrMessagingUnsupported.
	PostMessage(ctx context.Context, message []byte, targetOrigin string) error

	// OnTeardown registers fn to run once when the window goes away
	// for any reason, including the user closing it.
	OnTeardown(fn func())

	Close() error
}

// PopupName is the window name every popup is opened with, so a second
// open reuses the same window.
const PopupName = "streammesh_multiview"

// WindowSpec describes the window to open.
type WindowSpec struct {
	Name     string `json:"name,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Features string `json:"features,omitempty"`
	Title    string `json:"title"`
}

// Window size bounds. Each grid cell asks for at least
// CellWidth × CellHeight; the result is clamped to the bounds.
const (
	CellWidth       = 120
	CellHeight      = 90
	MinWindowWidth  = 400
	MinWindowHeight = 300
	MaxWindowWidth  = 1200
	MaxWindowHeight = 800
)

// WindowSize returns the window dimensions for a grid of rows × cols.
func WindowSize(rows, cols int) (width, height int) {
	width = min(max(MinWindowWidth, cols*CellWidth), MaxWindowWidth)
	height = min(max(MinWindowHeight, rows*CellHeight), MaxWindowHeight)
	return width, height
}

// popupFeatures is the window.open features string for a chromeless,
// resizable popup.
func popupFeatures(width, height int) string {
	return fmt.Sprintf("width=%d,height=%d,resizable=yes,scrollbars=no,menubar=no,toolbar=no,location=no,status=no",
		width, height)
}

// Capabilities reports which open paths a platform offers.
type Capabilities struct {
	Platform    string `json:"platform"`
	Native      bool   `json:"native"`
	Constrained bool   `json:"constrained"`
	Window      bool   `json:"window"`
	Popup       bool   `json:"popup"`
}

// Probe inspects platform without calling it.
func Probe(platform Platform) Capabilities {
	if platform == nil {
		return Capabilities{}
	}
	capabilities := Capabilities{Platform: platform.Name()}
	if native, ok := platform.(NativeSurfaceProvider); ok {
		capabilities.Native = true
		capabilities.Constrained = native.Constrained()
	}
	_, capabilities.Window = platform.(WindowRequester)
	_, capabilities.Popup = platform.(PopupOpener)
	return capabilities
}
