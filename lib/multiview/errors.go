// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package multiview

import "errors"

var (
	// ErrEmptyChannelList is returned by Open when there is nothing to show.
	ErrEmptyChannelList = errors.New("multiview: no channels provided")

	// ErrPopupBlocked means the popup opener refused or returned no
	// surface.
	ErrPopupBlocked = errors.New("multiview: popup blocked")

	// ErrPlatformUnsupported means a capability is missing or did not
	// answer in time. Open falls through to the next capability on it.
	ErrPlatformUnsupported = errors.New("multiview: platform capability unsupported")

	// ErrMessageDelivery wraps a failed post to an open surface.
	ErrMessageDelivery = errors.New("multiview: message delivery failed")

	// ErrMessagingUnsupported is returned by a Surface that cannot
	// receive messages. The manager rewrites the document instead.
	ErrMessagingUnsupported = errors.New("multiview: surface does not accept messages")

	// ErrOriginRejected is returned by HandleMessage for an origin
	// outside the allow-list.
	ErrOriginRejected = errors.New("multiview: message origin rejected")

	// ErrOpenSuperseded is returned by Open when Close or another Open
	// ran while it was waiting on the platform. The surface it obtained
	// has already been closed.
	ErrOpenSuperseded = errors.New("multiview: open superseded")
)
