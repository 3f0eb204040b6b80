// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package embed builds Twitch player and chat embed URLs.
//
// Twitch refuses to render an embed unless the parent parameter names
// the hostname of the document hosting the iframe, so every builder
// requires it. Channel names are trimmed; a blank channel yields an
// empty URL, which callers treat as "render a placeholder".
package embed

import (
	"net/url"
	"strconv"
	"strings"
)

// Default endpoints. Overridable for tests and mirrors.
const (
	PlayerBase = "https://player.twitch.tv/"
	ChatBase   = "https://www.twitch.tv/embed/"
)

// Player returns the player embed URL for channel. Playback always
// autoplays; muted controls the initial audio state.
func Player(channel, parent string, muted bool) string {
	return PlayerFrom(PlayerBase, channel, parent, muted)
}

// PlayerFrom is Player against an explicit base URL.
func PlayerFrom(base, channel, parent string, muted bool) string {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return ""
	}
	query := url.Values{}
	query.Set("channel", channel)
	query.Set("parent", parent)
	query.Set("muted", strconv.FormatBool(muted))
	query.Set("autoplay", "true")
	return base + "?" + encodeOrdered(query, "channel", "parent", "muted", "autoplay")
}

// Chat returns the chat embed URL for channel.
func Chat(channel, parent string) string {
	return ChatFrom(ChatBase, channel, parent)
}

// ChatFrom is Chat against an explicit base URL.
func ChatFrom(base, channel, parent string) string {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return ""
	}
	query := url.Values{}
	query.Set("parent", parent)
	return base + url.PathEscape(channel) + "/chat?" + query.Encode()
}

// ParentHost extracts the hostname (no port) from a page URL, falling
// back to "localhost" when none can be found.
func ParentHost(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Hostname() == "" {
		return "localhost"
	}
	return parsed.Hostname()
}

// encodeOrdered encodes values in the given key order instead of the
// alphabetical order url.Values.Encode uses.
func encodeOrdered(values url.Values, keys ...string) string {
	var builder strings.Builder
	for _, key := range keys {
		if builder.Len() > 0 {
			builder.WriteByte('&')
		}
		builder.WriteString(url.QueryEscape(key))
		builder.WriteByte('=')
		builder.WriteString(url.QueryEscape(values.Get(key)))
	}
	return builder.String()
}
