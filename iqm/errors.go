package iqm

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyCircuit reports a circuit with no qubit-touching operation.
var ErrEmptyCircuit = errors.New("an empty circuit was passed to the backend")

// ErrMissingToken reports that no access token was passed and none
// could be read from the IQM_TOKEN environment variable.
var ErrMissingToken = errors.New(
	"IQM access token has not been passed as an argument and could not be retrieved from the " + TokenEnvVar + " environment variable")

// CircuitError reports a circuit the backend cannot translate or
// submit: undeclared registers, conflicting shot counts, symbolic loop
// bounds and similar caller mistakes. Detected before any network call.
type CircuitError struct {
	Msg string
}

func (e *CircuitError) Error() string { return e.Msg }

// DoubleMeasurementError reports a qubit measured more than once, or a
// mix of individual and repeated measurements within one circuit.
type DoubleMeasurementError struct {
	Msg string
}

func (e *DoubleMeasurementError) Error() string { return e.Msg }

// RegisterTooSmallError reports an output register too short for the
// qubits measured into it.
type RegisterTooSmallError struct {
	Register string
}

func (e *RegisterTooSmallError) Error() string {
	return fmt.Sprintf("readout register %s is not large enough for the number of qubits", e.Register)
}

// BatchError reports a circuit batch the backend refuses to submit.
type BatchError struct {
	Msg string
}

func (e *BatchError) Error() string { return e.Msg }

// JobFailedError reports a job the server marked failed.
type JobFailedError struct {
	ID      string
	Message string
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("job %s failed: %s", e.ID, e.Message)
}

// JobAbortedError reports a job the server marked aborted.
type JobAbortedError struct {
	ID string
}

func (e *JobAbortedError) Error() string {
	return fmt.Sprintf("job %s is aborted", e.ID)
}

// AbortFailedError reports a refused abort request.
type AbortFailedError struct {
	ID     string
	Detail string
}

func (e *AbortFailedError) Error() string {
	return fmt.Sprintf("could not abort job %s: %s", e.ID, e.Detail)
}

// JobTimeoutError reports a poll loop that exhausted its wall-clock
// budget before the job reached a terminal state.
type JobTimeoutError struct {
	ID     string
	Budget time.Duration
}

func (e *JobTimeoutError) Error() string {
	return fmt.Sprintf("job %s did not finish in %s", e.ID, e.Budget)
}

// EmptyResultError reports a ready job whose result payload carried no
// measurements.
type EmptyResultError struct {
	ID string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("the server returned an empty result for job %s", e.ID)
}

// MetadataError reports a result payload whose request echo is missing
// or inconsistent, leaving the client unable to recover the measured
// qubits map.
type MetadataError struct {
	Msg string
}

func (e *MetadataError) Error() string { return e.Msg }

// ResultError reports a mismatch between the server's measurement
// payload and the registers the client expects.
type ResultError struct {
	Msg string
}

func (e *ResultError) Error() string { return e.Msg }
