package entities

import (
	"fmt"
	"time"
)

// ValidationError marks a malformed or physically impossible sample field.
// It is raised at normalization and surfaced whole to the caller.
type ValidationError struct {
	Timestamp time.Time
	Field     string
	Reason    string
}

func (e ValidationError) Error() string {
	if e.Timestamp.IsZero() {
		return fmt.Sprintf("invalid sample: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid sample at %s: %s: %s", e.Timestamp.Format(time.RFC3339), e.Field, e.Reason)
}

// ConfigurationError marks an invalid user profile or evaluation request.
// Evaluation is never attempted after one is raised.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Key, e.Reason)
}

// WarningTag is a non-fatal condition attached to a result.
type WarningTag string

const (
	// WarnComputationDegraded marks a score whose required inputs were
	// partially or fully missing for one (timestamp, index) pair.
	WarnComputationDegraded WarningTag = "computation_degraded"
)

// DataCoverageWarning reports that a requested window exceeded the stored
// series' coverage. It is carried on the result, never returned as an error.
type DataCoverageWarning struct {
	RequestedStart time.Time `json:"requested_start"`
	RequestedEnd   time.Time `json:"requested_end"`
	CoveredStart   time.Time `json:"covered_start,omitempty"`
	CoveredEnd     time.Time `json:"covered_end,omitempty"`
}

func (w DataCoverageWarning) Message() string {
	if w.CoveredStart.IsZero() {
		return fmt.Sprintf("no data between %s and %s",
			w.RequestedStart.Format(time.RFC3339), w.RequestedEnd.Format(time.RFC3339))
	}
	return fmt.Sprintf("requested %s to %s, data covers %s to %s",
		w.RequestedStart.Format(time.RFC3339), w.RequestedEnd.Format(time.RFC3339),
		w.CoveredStart.Format(time.RFC3339), w.CoveredEnd.Format(time.RFC3339))
}

// TransientNetworkError wraps a transport failure from the upstream weather
// API. Retry policy belongs to the caller.
type TransientNetworkError struct {
	Endpoint string
	Err      error
}

func (e TransientNetworkError) Error() string {
	return fmt.Sprintf("transient network error calling %s: %v", e.Endpoint, e.Err)
}

func (e TransientNetworkError) Unwrap() error {
	return e.Err
}
