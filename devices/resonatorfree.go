package devices

// ResonatorFreeDevice is a six-qubit device similar to the Deneb device
// but without the central resonator. It has a star connectivity with
// the sixth qubit in the center and ControlledPauliZ available between
// the central qubit and all others. It is used to compile algorithms
// for the Deneb device and has no remote endpoint of its own.
type ResonatorFreeDevice struct{}

const resonatorFreeQubits = 6

// NewResonatorFreeDevice creates a ResonatorFreeDevice.
func NewResonatorFreeDevice() *ResonatorFreeDevice {
	return &ResonatorFreeDevice{}
}

// Name returns the device name.
func (d *ResonatorFreeDevice) Name() string { return "ResonatorFree" }

// RemoteHost returns the empty string: the device cannot be submitted
// to directly.
func (d *ResonatorFreeDevice) RemoteHost() string { return "" }

// NumberQubits returns the number of qubits on the device.
func (d *ResonatorFreeDevice) NumberQubits() int { return resonatorFreeQubits }

// SingleQubitGateTime reports availability of single-qubit gates.
func (d *ResonatorFreeDevice) SingleQubitGateTime(gate string, qubit int) (float64, bool) {
	if gate == "RotateXY" && qubit >= 0 && qubit < resonatorFreeQubits {
		return 1.0, true
	}
	return 0, false
}

// TwoQubitGateTime reports availability of two-qubit gates on the star
// edges.
func (d *ResonatorFreeDevice) TwoQubitGateTime(gate string, control, target int) (float64, bool) {
	if gate == "ControlledPauliZ" && onEdge(d.TwoQubitEdges(), control, target) {
		return 1.0, true
	}
	return 0, false
}

// MultiQubitGateTime reports availability of multi-qubit gates. The
// device has none.
func (d *ResonatorFreeDevice) MultiQubitGateTime(gate string, qubits []int) (float64, bool) {
	return 0, false
}

// TwoQubitEdges returns the star connectivity with qubit 5 in the
// center.
func (d *ResonatorFreeDevice) TwoQubitEdges() [][2]int {
	edges := make([][2]int, 0, resonatorFreeQubits-1)
	for i := 0; i < resonatorFreeQubits-1; i++ {
		edges = append(edges, [2]int{i, 5})
	}
	return edges
}
