package iqm

import (
	"fmt"

	"github.com/qrithm/iqm-client/circuit"
	"github.com/qrithm/iqm-client/devices"
)

// ValidateCircuit checks that a circuit is well-defined for the given
// device before it is translated or submitted.
//
// The checks run in order: the circuit must touch at least one qubit;
// every gate must be available on the device (devices with structural
// constraints run their own validation); no qubit may be measured more
// than once; and a register targeted by a repeated measurement must be
// at least as long as the device's qubit count.
func ValidateCircuit(c circuit.Circuit, dev devices.Device) error {
	if _, ok := c.HighestQubit(); !ok {
		return ErrEmptyCircuit
	}

	if v, ok := dev.(devices.CircuitValidator); ok {
		if err := v.ValidateCircuit(c); err != nil {
			return err
		}
	} else if err := validateConnectivity(c, dev); err != nil {
		return err
	}

	measured := make(map[int]bool)
	for _, op := range c {
		switch o := op.(type) {
		case circuit.MeasureQubit:
			if measured[o.Qubit()] {
				return &DoubleMeasurementError{Msg: fmt.Sprintf("qubit %d is being measured multiple times", o.Qubit())}
			}
			measured[o.Qubit()] = true
		case circuit.PragmaRepeatedMeasurement:
			if len(measured) > 0 {
				return &DoubleMeasurementError{Msg: "qubits are being measured more than once: when using PragmaRepeatedMeasurement there should be no individual qubit measurements, and the operation can appear only once in the circuit"}
			}
			for q := 0; q < dev.NumberQubits(); q++ {
				measured[q] = true
			}
			length := 0
			for _, def := range c.Definitions() {
				if def.RegisterName() == o.Readout() {
					length = def.Length()
				}
			}
			if dev.NumberQubits() > length {
				return &RegisterTooSmallError{Register: o.Readout()}
			}
		}
	}
	return nil
}

// validateConnectivity checks every gate of the circuit against the
// device's gate-time tables. Used for devices without structural
// constraints of their own.
func validateConnectivity(c circuit.Circuit, dev devices.Device) error {
	for _, op := range c {
		if l, ok := op.(circuit.PragmaLoop); ok {
			if err := validateConnectivity(l.Circuit(), dev); err != nil {
				return err
			}
			continue
		}
		if devices.AllowedNonGateOp(op.Name()) {
			continue
		}
		switch o := op.(type) {
		case circuit.SingleQubitGate:
			if _, ok := dev.SingleQubitGateTime(op.Name(), o.Qubit()); !ok {
				return &devices.UnsupportedOperationError{Operation: op.Name()}
			}
		case circuit.TwoQubitGate:
			if _, ok := dev.TwoQubitGateTime(op.Name(), o.Control(), o.Target()); !ok {
				return &devices.UnsupportedOperationError{Operation: op.Name()}
			}
		case circuit.MultiQubitGate:
			if _, ok := dev.MultiQubitGateTime(op.Name(), o.Qubits()); !ok {
				return &devices.UnsupportedOperationError{Operation: op.Name()}
			}
		default:
			return &devices.UnsupportedOperationError{Operation: op.Name()}
		}
	}
	return nil
}

// validateCircuitBatch checks that the circuits of a batch write to
// distinct output registers.
func validateCircuitBatch(batch []circuit.Circuit) error {
	outputs := make(map[string]bool)
	for _, c := range batch {
		for _, def := range c.Definitions() {
			if def.IsOutput() {
				outputs[def.RegisterName()] = true
			}
		}
	}
	if len(outputs) < len(batch) {
		return &BatchError{Msg: "invalid circuit batch: when submitting a batch of circuits, they need to write to distinct output registers"}
	}
	return nil
}
