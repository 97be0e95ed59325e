package core

// error_messages.go maps technical errors to user messages.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Codes are grouped by category:
//
// # Grid Errors (GRID001-GRID099)
//
//	GRID001 - Session not found: The grid session does not exist or expired
//	          Action: Open the grid again to start a new session
//	          Patterns: "grid session not found"
//
//	GRID002 - Unknown action: The requested grid action is not supported
//	          Action: Check the action type name
//	          Patterns: "unknown action type"
//
//	GRID003 - Invalid action: The action payload could not be understood
//	          Action: Check the payload shape and values
//	          Patterns: "missing payload", "decode payload", "decode action",
//	          "invalid sort direction", "invalid filter operator",
//	          "invalid density", "invalid pin side", "empty action body",
//	          "unsupported export format"
//
// # Load Errors (LOAD001-LOAD099)
//
//	LOAD001 - System busy: Too many loads in progress
//	          Action: Please wait a moment and try again
//	          Patterns: "too many concurrent loads"
//
//	LOAD002 - Load failed: Rows could not be fetched from the data source
//	          Action: Reload the grid
//	          Patterns: "fetch rows"
//
//	LOAD003 - Load superseded: A newer load replaced this one
//	          Action: No action needed; the newer data is shown
//	          Patterns: "load superseded"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Connection refused: Unable to connect to database
//	DB002 - Connection reset: Database connection was interrupted
//	DB003 - Timeout: Operation timed out
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled: "context canceled"
//	REQ002 - Request timeout: "context deadline exceeded"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgSessionNotFound = UserMessage{
		Message: "Grid session not found",
		Action:  "Open the grid again to start a new session",
		Code:    "GRID001",
	}
	msgInvalidAction = UserMessage{
		Message: "The grid action is invalid",
		Action:  "Check the payload shape and values",
		Code:    "GRID003",
	}
	msgLoadFailed = UserMessage{
		Message: "Failed to load data",
		Action:  "Reload the grid",
		Code:    "LOAD002",
	}
)

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// Grid errors
	{pattern: "grid session not found", msg: msgSessionNotFound},
	{
		pattern: "unknown action type",
		msg: UserMessage{
			Message: "The grid action is not supported",
			Action:  "Check the action type name",
			Code:    "GRID002",
		},
	},
	{pattern: "missing payload", msg: msgInvalidAction},
	{pattern: "decode payload", msg: msgInvalidAction},
	{pattern: "decode action", msg: msgInvalidAction},
	{pattern: "invalid sort direction", msg: msgInvalidAction},
	{pattern: "invalid filter operator", msg: msgInvalidAction},
	{pattern: "invalid density", msg: msgInvalidAction},
	{pattern: "invalid pin side", msg: msgInvalidAction},
	{pattern: "empty action body", msg: msgInvalidAction},
	{pattern: "unsupported export format", msg: msgInvalidAction},

	// Load errors
	{
		pattern: "too many concurrent loads",
		msg: UserMessage{
			Message: "System is busy loading other grids",
			Action:  "Please wait a moment and try again",
			Code:    "LOAD001",
		},
	},
	{
		pattern: "load superseded",
		msg: UserMessage{
			Message: "A newer load replaced this one",
			Action:  "No action needed; the newer data is shown",
			Code:    "LOAD003",
		},
	},

	// Database connection errors come before the generic fetch failure so a
	// wrapped "fetch rows: ... connection refused" reports the root cause.
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB003",
		},
	},

	// Request errors
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again or lower the load limit",
			Code:    "REQ002",
		},
	},

	{pattern: "fetch rows", msg: msgLoadFailed},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	msg := MapError(fmt.Errorf("session %s: %w", id, ErrSessionNotFound))
//	// msg.Code == "GRID001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
