// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: rpc/codec.go
// Summary: msgpack-RPC frame types shared by the session read/write paths.

package rpc

import (
	"errors"
	"fmt"
)

// msgpack-RPC frame type tags.
const (
	frameRequest      = 0
	frameResponse     = 1
	frameNotification = 2
)

// ErrClosed is returned for calls made after the session shut down, and
// delivered to requests still pending when it does.
var ErrClosed = errors.New("rpc: session closed")

// Notification is an inbound [2, method, params] frame.
type Notification struct {
	Method string
	Params []any
}

// Error is a remote error returned in a response frame. The editor encodes
// it as an [type, message] array; anything else is stringified.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc: remote error %d: %s", e.Code, e.Message)
}

// decodeError normalizes the error slot of a response frame.
func decodeError(v any) error {
	if v == nil {
		return nil
	}
	if arr, ok := v.([]any); ok && len(arr) == 2 {
		return &Error{Code: toInt(arr[0]), Message: toString(arr[1])}
	}
	return &Error{Message: toString(v)}
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case uint32:
		return int(n)
	case int8:
		return int(n)
	case uint8:
		return int(n)
	case int16:
		return int(n)
	case uint16:
		return int(n)
	default:
		return 0
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}
