package circuit

// Operation is a single step of a quantum circuit: a gate, a
// measurement, a register declaration or a pragma.
type Operation interface {
	// Name returns the canonical operation name, e.g. "RotateXY".
	Name() string
	// InvolvedQubits returns the qubit indices the operation touches.
	// Declarations and whole-register pragmas return nil.
	InvolvedQubits() []int
}

// SingleQubitGate is a gate acting on exactly one qubit.
type SingleQubitGate interface {
	Operation
	Qubit() int
}

// TwoQubitGate is a gate acting on a control and a target qubit.
type TwoQubitGate interface {
	Operation
	Control() int
	Target() int
}

// MultiQubitGate is a gate acting on an ordered list of qubits.
type MultiQubitGate interface {
	Operation
	Qubits() []int
}

// QubitResonatorGate is a gate coupling one qubit to a resonator mode.
type QubitResonatorGate interface {
	Operation
	Qubit() int
	Mode() int
}

// RotateXY rotates a single qubit around an axis in the XY plane.
// Theta is the rotation angle and Phi the axis phase, both in radians.
type RotateXY struct {
	qubit      int
	theta, phi Value
}

// NewRotateXY builds a RotateXY gate.
func NewRotateXY(qubit int, theta, phi Value) RotateXY {
	return RotateXY{qubit: qubit, theta: theta, phi: phi}
}

func (r RotateXY) Name() string          { return "RotateXY" }
func (r RotateXY) Qubit() int            { return r.qubit }
func (r RotateXY) Theta() Value          { return r.theta }
func (r RotateXY) Phi() Value            { return r.phi }
func (r RotateXY) InvolvedQubits() []int { return []int{r.qubit} }

// ControlledPauliZ applies a Pauli-Z on the target conditioned on the
// control qubit.
type ControlledPauliZ struct {
	control, target int
}

// NewControlledPauliZ builds a ControlledPauliZ gate.
func NewControlledPauliZ(control, target int) ControlledPauliZ {
	return ControlledPauliZ{control: control, target: target}
}

func (g ControlledPauliZ) Name() string          { return "ControlledPauliZ" }
func (g ControlledPauliZ) Control() int          { return g.control }
func (g ControlledPauliZ) Target() int           { return g.target }
func (g ControlledPauliZ) InvolvedQubits() []int { return []int{g.control, g.target} }

// CZQubitResonator applies a controlled-Z between a qubit and a
// resonator mode.
type CZQubitResonator struct {
	qubit, mode int
}

// NewCZQubitResonator builds a CZQubitResonator gate.
func NewCZQubitResonator(qubit, mode int) CZQubitResonator {
	return CZQubitResonator{qubit: qubit, mode: mode}
}

func (g CZQubitResonator) Name() string          { return "CZQubitResonator" }
func (g CZQubitResonator) Qubit() int            { return g.qubit }
func (g CZQubitResonator) Mode() int             { return g.mode }
func (g CZQubitResonator) InvolvedQubits() []int { return []int{g.qubit} }

// SingleExcitationStore moves a single excitation from a qubit into a
// resonator mode.
type SingleExcitationStore struct {
	qubit, mode int
}

// NewSingleExcitationStore builds a SingleExcitationStore gate.
func NewSingleExcitationStore(qubit, mode int) SingleExcitationStore {
	return SingleExcitationStore{qubit: qubit, mode: mode}
}

func (g SingleExcitationStore) Name() string          { return "SingleExcitationStore" }
func (g SingleExcitationStore) Qubit() int            { return g.qubit }
func (g SingleExcitationStore) Mode() int             { return g.mode }
func (g SingleExcitationStore) InvolvedQubits() []int { return []int{g.qubit} }

// SingleExcitationLoad moves a single excitation from a resonator mode
// back into a qubit.
type SingleExcitationLoad struct {
	qubit, mode int
}

// NewSingleExcitationLoad builds a SingleExcitationLoad gate.
func NewSingleExcitationLoad(qubit, mode int) SingleExcitationLoad {
	return SingleExcitationLoad{qubit: qubit, mode: mode}
}

func (g SingleExcitationLoad) Name() string          { return "SingleExcitationLoad" }
func (g SingleExcitationLoad) Qubit() int            { return g.qubit }
func (g SingleExcitationLoad) Mode() int             { return g.mode }
func (g SingleExcitationLoad) InvolvedQubits() []int { return []int{g.qubit} }

// MeasureQubit measures one qubit into a bit register at the given
// position.
type MeasureQubit struct {
	qubit        int
	readout      string
	readoutIndex int
}

// NewMeasureQubit builds a MeasureQubit operation writing the outcome
// of qubit into register readout at position readoutIndex.
func NewMeasureQubit(qubit int, readout string, readoutIndex int) MeasureQubit {
	return MeasureQubit{qubit: qubit, readout: readout, readoutIndex: readoutIndex}
}

func (m MeasureQubit) Name() string          { return "MeasureQubit" }
func (m MeasureQubit) Qubit() int            { return m.qubit }
func (m MeasureQubit) Readout() string       { return m.readout }
func (m MeasureQubit) ReadoutIndex() int     { return m.readoutIndex }
func (m MeasureQubit) InvolvedQubits() []int { return []int{m.qubit} }

// PragmaRepeatedMeasurement measures all device qubits (or the qubits
// of an explicit mapping) into a register, repeated for the given
// number of shots.
type PragmaRepeatedMeasurement struct {
	readout string
	shots   int
	mapping map[int]int
}

// NewPragmaRepeatedMeasurement builds a repeated measurement of the
// whole device into register readout. The mapping, when non-nil, maps
// qubit indices to register positions; nil measures every device qubit
// into its own position.
func NewPragmaRepeatedMeasurement(readout string, shots int, mapping map[int]int) PragmaRepeatedMeasurement {
	return PragmaRepeatedMeasurement{readout: readout, shots: shots, mapping: mapping}
}

func (m PragmaRepeatedMeasurement) Name() string              { return "PragmaRepeatedMeasurement" }
func (m PragmaRepeatedMeasurement) Readout() string           { return m.readout }
func (m PragmaRepeatedMeasurement) Shots() int                { return m.shots }
func (m PragmaRepeatedMeasurement) QubitMapping() map[int]int { return m.mapping }
func (m PragmaRepeatedMeasurement) InvolvedQubits() []int     { return nil }

// PragmaSetNumberOfMeasurements fixes the shot count for the whole
// circuit and designates the register the coalesced measurement writes
// to.
type PragmaSetNumberOfMeasurements struct {
	shots   int
	readout string
}

// NewPragmaSetNumberOfMeasurements builds the shot-count pragma.
func NewPragmaSetNumberOfMeasurements(shots int, readout string) PragmaSetNumberOfMeasurements {
	return PragmaSetNumberOfMeasurements{shots: shots, readout: readout}
}

func (m PragmaSetNumberOfMeasurements) Name() string          { return "PragmaSetNumberOfMeasurements" }
func (m PragmaSetNumberOfMeasurements) Shots() int            { return m.shots }
func (m PragmaSetNumberOfMeasurements) Readout() string       { return m.readout }
func (m PragmaSetNumberOfMeasurements) InvolvedQubits() []int { return nil }

// PragmaLoop repeats an inner circuit a fixed number of times. Symbolic
// repetition counts are representable but rejected at translation.
type PragmaLoop struct {
	repetitions Value
	inner       Circuit
}

// NewPragmaLoop builds a loop repeating inner the given number of times.
func NewPragmaLoop(repetitions Value, inner Circuit) PragmaLoop {
	return PragmaLoop{repetitions: repetitions, inner: inner}
}

func (l PragmaLoop) Name() string       { return "PragmaLoop" }
func (l PragmaLoop) Repetitions() Value { return l.repetitions }
func (l PragmaLoop) Circuit() Circuit   { return l.inner }

func (l PragmaLoop) InvolvedQubits() []int {
	var qubits []int
	for _, op := range l.inner {
		qubits = append(qubits, op.InvolvedQubits()...)
	}
	return qubits
}

// DefinitionBit declares a classical bit register of fixed length.
// Only output registers are returned to the caller after execution.
type DefinitionBit struct {
	name     string
	length   int
	isOutput bool
}

// NewDefinitionBit declares a bit register.
func NewDefinitionBit(name string, length int, isOutput bool) DefinitionBit {
	return DefinitionBit{name: name, length: length, isOutput: isOutput}
}

func (d DefinitionBit) Name() string          { return "DefinitionBit" }
func (d DefinitionBit) RegisterName() string  { return d.name }
func (d DefinitionBit) Length() int           { return d.length }
func (d DefinitionBit) IsOutput() bool        { return d.isOutput }
func (d DefinitionBit) InvolvedQubits() []int { return nil }

// InputBit presets one bit of a declared register. It carries no
// backend semantics and is dropped during translation.
type InputBit struct {
	name  string
	index int
	value bool
}

// NewInputBit presets bit index of register name to value.
func NewInputBit(name string, index int, value bool) InputBit {
	return InputBit{name: name, index: index, value: value}
}

func (i InputBit) Name() string          { return "InputBit" }
func (i InputBit) RegisterName() string  { return i.name }
func (i InputBit) Index() int            { return i.index }
func (i InputBit) Value() bool           { return i.value }
func (i InputBit) InvolvedQubits() []int { return nil }

// PragmaGlobalPhase records a global phase. It has no observable effect
// on measurement outcomes and is dropped during translation.
type PragmaGlobalPhase struct {
	phase Value
}

// NewPragmaGlobalPhase builds a global-phase pragma.
func NewPragmaGlobalPhase(phase Value) PragmaGlobalPhase {
	return PragmaGlobalPhase{phase: phase}
}

func (p PragmaGlobalPhase) Name() string          { return "PragmaGlobalPhase" }
func (p PragmaGlobalPhase) Phase() Value          { return p.phase }
func (p PragmaGlobalPhase) InvolvedQubits() []int { return nil }

// PragmaStopParallelBlock marks the end of a block of operations that
// may be scheduled in parallel. Dropped during translation.
type PragmaStopParallelBlock struct{}

// NewPragmaStopParallelBlock builds the parallel-block delimiter pragma.
func NewPragmaStopParallelBlock() PragmaStopParallelBlock {
	return PragmaStopParallelBlock{}
}

func (p PragmaStopParallelBlock) Name() string          { return "PragmaStopParallelBlock" }
func (p PragmaStopParallelBlock) InvolvedQubits() []int { return nil }
