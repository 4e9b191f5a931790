package devices

// DemoDevice is the IQM demo environment. The endpoint receives
// instructions and returns simulated results; outcomes are
// pseudo-random numbers, not actual quantum simulations.
type DemoDevice struct {
	url  string
	name string
}

const demoQubits = 5

// NewDemoDevice creates a DemoDevice pointing at the demo endpoint.
func NewDemoDevice() *DemoDevice {
	return &DemoDevice{
		url:  "https://demo.qc.iqm.fi/cocos/jobs",
		name: "Demo",
	}
}

// Name returns the device name.
func (d *DemoDevice) Name() string { return d.name }

// RemoteHost returns the job submission endpoint URL.
func (d *DemoDevice) RemoteHost() string { return d.url }

// SetEndpointURL points the device at a different endpoint.
func (d *DemoDevice) SetEndpointURL(url string) { d.url = url }

// NumberQubits returns the number of qubits on the device.
func (d *DemoDevice) NumberQubits() int { return demoQubits }

// SingleQubitGateTime reports availability of single-qubit gates.
// RotateXY is the only native single-qubit gate.
func (d *DemoDevice) SingleQubitGateTime(gate string, qubit int) (float64, bool) {
	if gate == "RotateXY" && qubit >= 0 && qubit < demoQubits {
		return 1.0, true
	}
	return 0, false
}

// TwoQubitGateTime reports availability of two-qubit gates.
// ControlledPauliZ is available on the device's connectivity edges.
func (d *DemoDevice) TwoQubitGateTime(gate string, control, target int) (float64, bool) {
	if gate == "ControlledPauliZ" && onEdge(d.TwoQubitEdges(), control, target) {
		return 1.0, true
	}
	return 0, false
}

// MultiQubitGateTime reports availability of multi-qubit gates. The
// device has none.
func (d *DemoDevice) MultiQubitGateTime(gate string, qubits []int) (float64, bool) {
	return 0, false
}

// TwoQubitEdges returns the undirected connectivity graph: a star with
// qubit 2 in the center.
func (d *DemoDevice) TwoQubitEdges() [][2]int {
	return [][2]int{{0, 2}, {1, 2}, {2, 3}, {2, 4}}
}

// onEdge reports whether the unordered pair (a, b) is in edges.
func onEdge(edges [][2]int, a, b int) bool {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	for _, e := range edges {
		if e[0] == lo && e[1] == hi {
			return true
		}
	}
	return false
}
