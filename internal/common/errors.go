// Package common defines shared sentinel errors used across the worker,
// master and client layers of the words application. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Transport errors.
	ErrorNotConnected = errors.New("not connected")
)
