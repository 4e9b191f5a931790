package devices

import (
	"fmt"

	"github.com/qrithm/iqm-client/circuit"
)

// AllowedNonGateOp reports whether the named operation is a
// measurement, a register declaration or a droppable pragma. These
// carry no qubit-touching gate semantics and every device accepts them.
func AllowedNonGateOp(name string) bool {
	return allowedNonGateOps[name]
}

var allowedNonGateOps = map[string]bool{
	"PragmaSetNumberOfMeasurements": true,
	"PragmaRepeatedMeasurement":     true,
	"MeasureQubit":                  true,
	"DefinitionBit":                 true,
	"InputBit":                      true,
	"PragmaGlobalPhase":             true,
	"PragmaStopParallelBlock":       true,
}

// DenebDevice is a hardware device composed of six qubits, each coupled
// to a central computational resonator. The resonator holds at most one
// excitation at any time, which constrains the order of load and store
// operations in a circuit.
type DenebDevice struct {
	url  string
	name string
}

const denebQubits = 6

// NewDenebDevice creates a DenebDevice pointing at the production
// endpoint.
func NewDenebDevice() *DenebDevice {
	return &DenebDevice{
		url:  "https://cocos.resonance.meetiqm.com/deneb/jobs",
		name: "Deneb",
	}
}

// Name returns the device name.
func (d *DenebDevice) Name() string { return d.name }

// RemoteHost returns the job submission endpoint URL.
func (d *DenebDevice) RemoteHost() string { return d.url }

// SetEndpointURL points the device at a different endpoint, e.g. a
// staging or mock server.
func (d *DenebDevice) SetEndpointURL(url string) { d.url = url }

// NumberQubits returns the number of qubits on the device.
func (d *DenebDevice) NumberQubits() int { return denebQubits }

// SingleQubitGateTime reports availability of single-qubit gates.
// RotateXY is the only native single-qubit gate.
func (d *DenebDevice) SingleQubitGateTime(gate string, qubit int) (float64, bool) {
	if gate == "RotateXY" && qubit >= 0 && qubit < denebQubits {
		return 1.0, true
	}
	return 0, false
}

// TwoQubitGateTime reports availability of qubit-resonator gates. Only
// a two-dimensional subspace of the resonator is accessible, so it
// effectively behaves like an extra qubit: the resonator takes the
// target slot with index 0.
func (d *DenebDevice) TwoQubitGateTime(gate string, control, target int) (float64, bool) {
	if target != 0 || control < 0 || control >= denebQubits {
		return 0, false
	}
	switch gate {
	case "CZQubitResonator", "SingleExcitationLoad", "SingleExcitationStore":
		return 1.0, true
	}
	return 0, false
}

// MultiQubitGateTime reports availability of multi-qubit gates. The
// device has none.
func (d *DenebDevice) MultiQubitGateTime(gate string, qubits []int) (float64, bool) {
	return 0, false
}

// TwoQubitEdges returns the qubit-qubit connectivity graph. All
// two-qubit interactions are mediated by the resonator, so there are no
// direct edges.
func (d *DenebDevice) TwoQubitEdges() [][2]int { return nil }

// ValidateCircuit checks a circuit against the device's architecture:
// connectivity first, then the legality of load/store sequences on the
// shared resonator.
func (d *DenebDevice) ValidateCircuit(c circuit.Circuit) error {
	if err := d.validateConnectivity(c); err != nil {
		return err
	}
	return d.validateLoadStore(c)
}

func (d *DenebDevice) validateConnectivity(c circuit.Circuit) error {
	for _, op := range c {
		switch o := op.(type) {
		case circuit.RotateXY:
			if o.Qubit() >= denebQubits {
				return &InvalidCircuitError{Msg: fmt.Sprintf(
					"too many qubits involved in the circuit: found %s acting on qubit %d, qubits in Deneb device: %d",
					op.Name(), o.Qubit(), denebQubits)}
			}
		case circuit.CZQubitResonator:
			if o.Qubit() >= denebQubits {
				return &InvalidCircuitError{Msg: fmt.Sprintf(
					"too many qubits involved in the circuit: found %s acting on qubit %d, qubits in Deneb device: %d",
					op.Name(), o.Qubit(), denebQubits)}
			}
			if o.Mode() != 0 {
				return &InvalidCircuitError{Msg: fmt.Sprintf(
					"wrong resonator index in operation %s: DenebDevice has a single resonator with index 0", op.Name())}
			}
		case circuit.SingleExcitationLoad:
			if o.Mode() != 0 {
				return &InvalidCircuitError{Msg: fmt.Sprintf(
					"wrong resonator index in operation %s: DenebDevice has a single resonator with index 0", op.Name())}
			}
		case circuit.SingleExcitationStore:
			if o.Mode() != 0 {
				return &InvalidCircuitError{Msg: fmt.Sprintf(
					"wrong resonator index in operation %s: DenebDevice has a single resonator with index 0", op.Name())}
			}
		case circuit.PragmaLoop:
			if err := d.validateConnectivity(o.Circuit()); err != nil {
				return err
			}
		default:
			if !allowedNonGateOps[op.Name()] {
				return &UnsupportedOperationError{Operation: op.Name()}
			}
		}
	}
	return nil
}

// resonatorState tracks the occupancy of the shared resonator while
// scanning a circuit front to back.
type resonatorState int

const (
	resonatorIdle resonatorState = iota
	resonatorStored
	resonatorLoaded
)

// validateLoadStore runs a finite-state scan over the operation stream.
// Illegal sequences are: storing while an excitation is already stored,
// loading when nothing was stored since the last load, and rotating the
// stored qubit before the matching load (the qubit's state would
// diverge from what the resonator holds).
func (d *DenebDevice) validateLoadStore(c circuit.Circuit) error {
	state := resonatorIdle
	storedQubit := -1
	qubitRotated := false

	for _, op := range c {
		switch o := op.(type) {
		case circuit.SingleExcitationStore:
			if state == resonatorStored {
				return &InvalidCircuitError{Msg: "circuit tries to store two excitations in the resonator"}
			}
			storedQubit = o.Qubit()
			qubitRotated = false
			state = resonatorStored
		case circuit.SingleExcitationLoad:
			switch state {
			case resonatorStored:
				if qubitRotated && o.Qubit() == storedQubit {
					return &InvalidCircuitError{Msg: fmt.Sprintf(
						"circuit tries to rotate qubit %d before loading an excitation into it from the resonator", o.Qubit())}
				}
			case resonatorLoaded:
				return &InvalidCircuitError{Msg: "circuit tries to load twice in a row from the resonator"}
			}
			state = resonatorLoaded
		case circuit.RotateXY:
			if state == resonatorStored && o.Qubit() == storedQubit {
				qubitRotated = true
			}
		}
	}
	return nil
}
