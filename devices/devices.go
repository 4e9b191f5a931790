// Package devices describes the IQM execution targets the client can
// submit to: their qubit counts, native gate-time tables, connectivity
// and, for resonator-coupled machines, the structural constraints the
// hardware imposes on circuits.
package devices

import (
	"fmt"

	"github.com/qrithm/iqm-client/circuit"
)

// Device describes the capabilities of one IQM execution target.
//
// The gate-time methods double as capability predicates: a gate is
// available on the given qubits exactly when the method reports ok.
// Times are in device-native units.
type Device interface {
	// Name returns the device's display name.
	Name() string
	// RemoteHost returns the job submission endpoint URL, or the empty
	// string for devices without a remote endpoint.
	RemoteHost() string
	// NumberQubits returns the number of qubits on the device.
	NumberQubits() int
	// SingleQubitGateTime returns the execution time of a single-qubit
	// gate on the given qubit, if available.
	SingleQubitGateTime(gate string, qubit int) (float64, bool)
	// TwoQubitGateTime returns the execution time of a two-qubit gate
	// on the given qubit pair, if available.
	TwoQubitGateTime(gate string, control, target int) (float64, bool)
	// MultiQubitGateTime returns the execution time of a multi-qubit
	// gate on the given qubits, if available.
	MultiQubitGateTime(gate string, qubits []int) (float64, bool)
	// TwoQubitEdges returns the undirected connectivity graph as a list
	// of qubit pairs linked by a native two-qubit gate.
	TwoQubitEdges() [][2]int
}

// CircuitValidator is implemented by devices whose hardware imposes
// structural constraints beyond what the gate-time tables express. The
// backend prefers this check over the generic connectivity scan when a
// device provides it.
type CircuitValidator interface {
	ValidateCircuit(c circuit.Circuit) error
}

// UnsupportedOperationError reports an operation outside the gate set
// of the targeted device.
type UnsupportedOperationError struct {
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %s is not supported by the IQM backend", e.Operation)
}

// InvalidCircuitError reports a circuit that violates a device's
// structural constraints.
type InvalidCircuitError struct {
	Msg string
}

func (e *InvalidCircuitError) Error() string {
	return e.Msg
}
