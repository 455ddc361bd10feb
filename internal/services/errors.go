package services

import "errors"

// ErrRouteNotFound is returned when a route lookup (by id, or id+project on
// replace) yields nothing. It is an expected absent-result outcome, not a
// system fault.
var ErrRouteNotFound = errors.New("route not found")

// NoPathError means the routing engine answered but could not produce a path
// between the given waypoints. Recoverable by the caller with different input.
type NoPathError struct {
	Message string
}

func (e *NoPathError) Error() string { return e.Message }

// UpstreamError means the routing engine was unreachable, errored or timed
// out. Kept distinct from NoPathError so operators can alert on it separately.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string { return e.Message }

func (e *UpstreamError) Unwrap() error { return e.Err }

// ValidationError marks malformed input detected before any network or store
// call: too few waypoints, out-of-range coordinates, or a confirm payload
// without coordinates.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
