package domain

import "errors"

// ErrNotFound is returned by clients and stores when the requested resource
// does not exist (plan, selection session, cached route).
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing required field, non-positive rate value).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the requesting user is not the owner of the
// plan being read or written. Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidRouteInput is returned by the estimator when the route request
// itself is malformed: no stops, or an unusable rate. Recoverable; the user
// corrects the input and retries. Maps to HTTP 422.
var ErrInvalidRouteInput = errors.New("invalid route input")

// ErrOriginUnavailable is returned when no origin coordinate was supplied and
// no start location could stand in for it. The front-end surfaces this as
// "pick a start point". Maps to HTTP 422.
var ErrOriginUnavailable = errors.New("origin unavailable")

// ErrRouteUnavailable is returned when the directions provider answered but
// could not produce a route between the requested stops. No automatic retry:
// the user must change the stops and re-trigger. Maps to HTTP 502.
var ErrRouteUnavailable = errors.New("route unavailable")

// ErrPersistenceFailure is returned when a write to the plan storage API
// fails (network or auth). The computed estimate and the selection session
// are left untouched so the user can simply retry. Maps to HTTP 502.
var ErrPersistenceFailure = errors.New("persistence failure")

// ErrDuplicateAssignment is returned when a location is assigned to a day
// while already assigned to a different day of the same plan. Soft failure:
// the session is unchanged. Maps to HTTP 409.
var ErrDuplicateAssignment = errors.New("duplicate assignment")
