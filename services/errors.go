package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel error kinds. Controllers map these to HTTP statuses; callers
// test them with errors.Is so wrapped variants keep their kind.
var (
	ErrNotFound            = errors.New("not_found")
	ErrAlreadyReserved     = errors.New("already_reserved")
	ErrPendingExists       = errors.New("pending_reservation_exists")
	ErrTimeOverlap         = errors.New("reservation_time_overlap")
	ErrInvalidState        = errors.New("invalid_state_transition")
	ErrInvalidValue        = errors.New("invalid_value")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotCompleted        = errors.New("reservation_not_completed")
	ErrDuplicateUnit       = errors.New("duplicate_unit")
	ErrDuplicateOffering   = errors.New("offering_exists")
	ErrGeocoderUnavailable = errors.New("geocoder_unavailable")
)

// FieldErrors collects validation problems per field so one round trip
// reports all of them. It is only used where validation is explicitly
// batched (search); lifecycle checks stay fail-fast.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) Any() bool {
	return len(e) > 0
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
