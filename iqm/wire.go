// Package iqm implements the client for IQM's remote quantum-circuit
// execution service: circuit translation into the vendor wire format,
// device-legality validation, job submission and polling, and
// reassembly of raw measurement data into typed output registers.
package iqm

import "fmt"

// Native instruction names of the IQM wire format.
const (
	instrPRX     = "prx"
	instrCZ      = "cz"
	instrMove    = "move"
	instrMeasure = "measure"
)

// resonatorLabel is the wire label of the shared computational
// resonator on resonator-coupled devices.
const resonatorLabel = "COMP_R"

// Instruction is one native instruction in the IQM wire format. Args
// values are floats (gate parameters, angles in turns) or strings
// (measurement keys).
type Instruction struct {
	Name   string         `json:"name"`
	Qubits []string       `json:"qubits"`
	Args   map[string]any `json:"args"`
}

// WireCircuit is a translated circuit as accepted by the IQM REST API.
// Metadata carries the measured-qubits map so that the server's request
// echo round-trips it back to the client alongside the results.
type WireCircuit struct {
	Name         string            `json:"name"`
	Instructions []Instruction     `json:"instructions"`
	Metadata     MeasuredQubitsMap `json:"metadata,omitempty"`
}

// RegisterRecord describes how one output register is populated: the
// register bit positions written by successive measurements, in the
// order the measurement operations appear in the circuit (the order the
// server reports outcomes in), and the register's declared length.
type RegisterRecord struct {
	Positions []int `json:"positions"`
	Length    int   `json:"length"`
}

// MeasuredQubitsMap links measurement outcomes to output registers, per
// register name. It is produced during translation and is the single
// source of truth for result reassembly.
type MeasuredQubitsMap map[string]RegisterRecord

// QubitMapping maps one logical qubit name to a physical qubit name.
// Passed through to the service untouched.
type QubitMapping struct {
	LogicalName  string `json:"logical_name"`
	PhysicalName string `json:"physical_name"`
}

// HeraldingMode selects the service's heralding behavior.
type HeraldingMode string

const (
	// HeraldingNone disables heralding.
	HeraldingNone HeraldingMode = "none"
	// HeraldingZeros post-selects shots on an all-zero heralding
	// measurement; the returned shot count may be lower than requested.
	HeraldingZeros HeraldingMode = "zeros"
)

// RunRequest is the job submission payload.
type RunRequest struct {
	Circuits                 []WireCircuit     `json:"circuits"`
	CustomSettings           map[string]string `json:"custom_settings,omitempty"`
	CalibrationSetID         string            `json:"calibration_set_id,omitempty"`
	QubitMapping             []QubitMapping    `json:"qubit_mapping,omitempty"`
	Shots                    int               `json:"shots"`
	MaxCircuitDurationOverT2 float64           `json:"max_circuit_duration_over_t2,omitempty"`
	HeraldingMode            HeraldingMode     `json:"heralding_mode"`
}

// Status is the server-tracked state of a job.
type Status string

const (
	StatusPendingCompilation Status = "pending compilation"
	StatusPendingExecution   Status = "pending execution"
	StatusReady              Status = "ready"
	StatusFailed             Status = "failed"
	StatusAborted            Status = "aborted"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusReady, StatusFailed, StatusAborted:
		return true
	}
	return false
}

// CircuitResult holds the measurement outcomes of a single circuit:
// per measurement key (register name), one row per shot, one 0/1 entry
// per measured qubit in measurement order.
type CircuitResult map[string][][]int

// BatchResult holds one CircuitResult per circuit in the submitted
// batch.
type BatchResult []CircuitResult

// Metadata echoes the original run request back with the results.
type Metadata struct {
	Request RunRequest `json:"request"`
}

// RunResult is the job status payload returned by the service.
type RunResult struct {
	Status       Status      `json:"status"`
	Measurements BatchResult `json:"measurements,omitempty"`
	Message      string      `json:"message,omitempty"`
	Metadata     Metadata    `json:"metadata"`
	Warnings     []string    `json:"warnings,omitempty"`
}

// qubitName converts a zero-based qubit index into the wire label
// accepted by IQM, e.g. index 1 becomes "QB2".
func qubitName(qubit int) string {
	return fmt.Sprintf("QB%d", qubit+1)
}

// allQubitNames returns the wire labels of every device qubit, in
// order.
func allQubitNames(numberQubits int) []string {
	names := make([]string, 0, numberQubits)
	for i := 0; i < numberQubits; i++ {
		names = append(names, qubitName(i))
	}
	return names
}
