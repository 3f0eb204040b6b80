// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package multiview mirrors the viewer's visible channels into a
// separate picture-in-picture surface and keeps it synchronized.
//
// A [Manager] owns at most one session. Opening probes the injected
// platform for three capabilities in order and uses the first that
// works:
//
//  1. [NativeSurfaceProvider] on a constrained platform: no window can
//     be opened, so the manager paints a synthetic [Composite] (one
//     labeled block per channel) and hands frames to the platform's
//     native picture-in-picture element.
//  2. [WindowRequester]: an always-on-top document window sized to the
//     solved grid, into which the manager writes [RenderDocument].
//  3. [PopupOpener]: an ordinary named popup with the same document.
//
// A step that is absent, times out, or reports [ErrPlatformUnsupported]
// falls through to the next. A blocked popup is the only failure that
// reaches the caller as something other than "unsupported".
//
// After opening, the primary side pushes CHANNELS_UPDATE messages as
// its tile state changes ([Manager.UpdateChannels]) and answers
// SYNC_REQUEST messages from the surface ([Manager.HandleMessage]).
// Inbound messages are accepted only from allow-listed origins, and
// the rendered document applies the same check in the other direction.
//
// Every platform call runs under the configured timeout on the injected
// [clock.Clock] and the caller's context. The manager is safe for
// concurrent use; platform calls never run with its lock held.
package multiview
