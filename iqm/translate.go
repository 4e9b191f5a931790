package iqm

import (
	"fmt"
	"math"
	"sort"

	"github.com/qrithm/iqm-client/circuit"
	"github.com/qrithm/iqm-client/devices"
)

// toTurns converts an angle in radians into full turns, the unit the
// IQM wire format expects for prx parameters.
func toTurns(rad float64) float64 {
	return rad / (2 * math.Pi)
}

// TranslateCircuit converts a circuit into the IQM wire format.
//
// deviceQubits is the qubit count of the target device, used to expand
// whole-device repeated measurements. overrideShots, when positive,
// wins over any shot count the circuit itself specifies. batchIndex
// names the translated circuit within its submission batch.
//
// It returns the wire circuit, the measured-qubits map needed to
// reassemble results, and the effective shot count.
func TranslateCircuit(c circuit.Circuit, deviceQubits, overrideShots, batchIndex int) (WireCircuit, MeasuredQubitsMap, int, error) {
	t := &translator{
		deviceQubits: deviceQubits,
		measureIndex: make(map[string]int),
		mqm:          make(MeasuredQubitsMap),
		seen:         make(map[string]map[int]bool),
		shots:        1,
	}

	for _, op := range c {
		if err := t.translate(op); err != nil {
			return WireCircuit{}, nil, 0, err
		}
	}

	if overrideShots > 0 {
		t.shots = overrideShots
	}

	wc := WireCircuit{
		Name:         fmt.Sprintf("qc_%d", batchIndex),
		Instructions: t.instructions,
		Metadata:     t.mqm,
	}
	return wc, t.mqm, t.shots, nil
}

// translator accumulates the state of one circuit translation.
type translator struct {
	deviceQubits int
	instructions []Instruction

	// measureIndex locates the coalesced measure instruction of each
	// register, so appending a qubit does not rescan the emitted list.
	measureIndex map[string]int

	mqm  MeasuredQubitsMap
	seen map[string]map[int]bool

	shots    int
	shotsSet bool
	repeated bool

	// Qubits measured via MeasureQubit and the register positions they
	// write to, both in call order.
	measuredQubits    []int
	measuredPositions []int
}

func (t *translator) translate(op circuit.Operation) error {
	switch o := op.(type) {
	case circuit.DefinitionBit:
		if o.IsOutput() {
			t.mqm[o.RegisterName()] = RegisterRecord{Positions: []int{}, Length: o.Length()}
		}
	case circuit.MeasureQubit:
		return t.measureQubit(o)
	case circuit.PragmaSetNumberOfMeasurements:
		return t.setNumberOfMeasurements(o)
	case circuit.PragmaRepeatedMeasurement:
		return t.repeatedMeasurement(o)
	case circuit.PragmaLoop:
		return t.inlineLoop(o)
	default:
		ins, err := translateOperation(op)
		if err != nil {
			return err
		}
		if ins != nil {
			t.instructions = append(t.instructions, *ins)
		}
	}
	return nil
}

func (t *translator) measureQubit(o circuit.MeasureQubit) error {
	if t.repeated {
		return &DoubleMeasurementError{Msg: "individual qubit measurements cannot be combined with PragmaRepeatedMeasurement"}
	}
	readout := o.Readout()
	rec, ok := t.mqm[readout]
	if !ok {
		return &CircuitError{Msg: fmt.Sprintf("measurement writes to register %s before it is declared", readout)}
	}
	if t.seen[readout] == nil {
		t.seen[readout] = make(map[int]bool)
	}
	if t.seen[readout][o.Qubit()] {
		return &DoubleMeasurementError{Msg: fmt.Sprintf("qubit %d is measured twice into register %s", o.Qubit(), readout)}
	}
	t.seen[readout][o.Qubit()] = true

	rec.Positions = append(rec.Positions, o.ReadoutIndex())
	t.mqm[readout] = rec
	t.measuredQubits = append(t.measuredQubits, o.Qubit())
	t.measuredPositions = append(t.measuredPositions, o.ReadoutIndex())

	if idx, ok := t.measureIndex[readout]; ok {
		t.instructions[idx].Qubits = append(t.instructions[idx].Qubits, qubitName(o.Qubit()))
		return nil
	}
	t.measureIndex[readout] = len(t.instructions)
	t.instructions = append(t.instructions, Instruction{
		Name:   instrMeasure,
		Qubits: []string{qubitName(o.Qubit())},
		Args:   map[string]any{"key": readout},
	})
	return nil
}

// setNumberOfMeasurements fixes the shot count and folds all individual
// measurements emitted so far into one measure instruction keyed by the
// pragma's register. The qubits keep the register positions their
// original measurements assigned.
func (t *translator) setNumberOfMeasurements(o circuit.PragmaSetNumberOfMeasurements) error {
	if t.shotsSet && t.shots != o.Shots() {
		return &CircuitError{Msg: fmt.Sprintf(
			"conflicting numbers of measurements for the circuit: %d and %d", t.shots, o.Shots())}
	}
	t.shots = o.Shots()
	t.shotsSet = true

	readout := o.Readout()
	rec, ok := t.mqm[readout]
	if !ok {
		return &CircuitError{Msg: fmt.Sprintf("PragmaSetNumberOfMeasurements targets register %s before it is declared", readout)}
	}
	if rec.Length < len(t.measuredQubits) {
		return &RegisterTooSmallError{Register: readout}
	}

	kept := t.instructions[:0]
	for _, ins := range t.instructions {
		if ins.Name != instrMeasure {
			kept = append(kept, ins)
		}
	}
	t.instructions = kept
	t.measureIndex = make(map[string]int)

	for name, r := range t.mqm {
		if name != readout {
			r.Positions = []int{}
			t.mqm[name] = r
		}
	}
	rec.Positions = append([]int(nil), t.measuredPositions...)
	t.mqm[readout] = rec

	if len(t.measuredQubits) > 0 {
		names := make([]string, 0, len(t.measuredQubits))
		for _, q := range t.measuredQubits {
			names = append(names, qubitName(q))
		}
		t.measureIndex[readout] = len(t.instructions)
		t.instructions = append(t.instructions, Instruction{
			Name:   instrMeasure,
			Qubits: names,
			Args:   map[string]any{"key": readout},
		})
	}
	return nil
}

func (t *translator) repeatedMeasurement(o circuit.PragmaRepeatedMeasurement) error {
	if t.repeated {
		return &DoubleMeasurementError{Msg: "PragmaRepeatedMeasurement can appear only once in a circuit"}
	}
	if len(t.measuredQubits) > 0 {
		return &DoubleMeasurementError{Msg: "qubits are measured more than once: PragmaRepeatedMeasurement cannot be combined with individual qubit measurements"}
	}
	if t.shotsSet && t.shots != o.Shots() {
		return &CircuitError{Msg: fmt.Sprintf(
			"conflicting numbers of measurements for the circuit: %d and %d", t.shots, o.Shots())}
	}
	t.shots = o.Shots()
	t.shotsSet = true
	t.repeated = true

	readout := o.Readout()
	if mapping := o.QubitMapping(); mapping != nil {
		rec, ok := t.mqm[readout]
		if !ok {
			return &CircuitError{Msg: fmt.Sprintf("repeated measurement targets register %s before it is declared", readout)}
		}
		qubits := make([]int, 0, len(mapping))
		for q := range mapping {
			qubits = append(qubits, q)
		}
		sort.Ints(qubits)
		for _, q := range qubits {
			rec.Positions = append(rec.Positions, mapping[q])
		}
		t.mqm[readout] = rec
	} else {
		length := t.deviceQubits
		if rec, ok := t.mqm[readout]; ok {
			length = rec.Length
		}
		positions := make([]int, t.deviceQubits)
		for i := range positions {
			positions[i] = i
		}
		t.mqm[readout] = RegisterRecord{Positions: positions, Length: length}
	}

	t.instructions = append(t.instructions, Instruction{
		Name:   instrMeasure,
		Qubits: allQubitNames(t.deviceQubits),
		Args:   map[string]any{"key": readout},
	})
	return nil
}

// inlineLoop unrolls a loop with a concrete repetition count. The inner
// operations go through the plain per-operation mapping: loops cannot
// nest and cannot contain measurement constructs.
func (t *translator) inlineLoop(o circuit.PragmaLoop) error {
	reps, ok := o.Repetitions().Num()
	if !ok {
		return &CircuitError{Msg: "only loops with non-symbolic repetitions are supported by the backend"}
	}
	for i := 0; i < int(reps); i++ {
		for _, inner := range o.Circuit() {
			ins, err := translateOperation(inner)
			if err != nil {
				return err
			}
			if ins != nil {
				t.instructions = append(t.instructions, *ins)
			}
		}
	}
	return nil
}

// translateOperation maps one gate operation onto its native
// instruction. Allow-listed no-op pragmas return nil without error;
// anything unmapped is unsupported by the backend.
func translateOperation(op circuit.Operation) (*Instruction, error) {
	switch o := op.(type) {
	case circuit.RotateXY:
		theta, ok := o.Theta().Num()
		if !ok {
			return nil, &CircuitError{Msg: fmt.Sprintf("symbolic parameter %s in operation %s", o.Theta(), op.Name())}
		}
		phi, ok := o.Phi().Num()
		if !ok {
			return nil, &CircuitError{Msg: fmt.Sprintf("symbolic parameter %s in operation %s", o.Phi(), op.Name())}
		}
		return &Instruction{
			Name:   instrPRX,
			Qubits: []string{qubitName(o.Qubit())},
			Args: map[string]any{
				"angle_t": toTurns(theta),
				"phase_t": toTurns(phi),
			},
		}, nil
	case circuit.ControlledPauliZ:
		return &Instruction{
			Name:   instrCZ,
			Qubits: []string{qubitName(o.Control()), qubitName(o.Target())},
			Args:   map[string]any{},
		}, nil
	case circuit.CZQubitResonator:
		return &Instruction{
			Name:   instrCZ,
			Qubits: []string{qubitName(o.Qubit()), resonatorLabel},
			Args:   map[string]any{},
		}, nil
	case circuit.SingleExcitationLoad:
		return &Instruction{
			Name:   instrMove,
			Qubits: []string{qubitName(o.Qubit()), resonatorLabel},
			Args:   map[string]any{},
		}, nil
	case circuit.SingleExcitationStore:
		return &Instruction{
			Name:   instrMove,
			Qubits: []string{qubitName(o.Qubit()), resonatorLabel},
			Args:   map[string]any{},
		}, nil
	case circuit.DefinitionBit, circuit.InputBit, circuit.PragmaGlobalPhase, circuit.PragmaStopParallelBlock:
		return nil, nil
	default:
		return nil, &devices.UnsupportedOperationError{Operation: op.Name()}
	}
}
