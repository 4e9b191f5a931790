package devices

import (
	"errors"
	"testing"

	"github.com/qrithm/iqm-client/circuit"
)

func TestDemoConnectivity(t *testing.T) {
	dev := NewDemoDevice()

	if dev.NumberQubits() != 5 {
		t.Fatalf("expected 5 qubits, got %d", dev.NumberQubits())
	}
	if _, ok := dev.TwoQubitGateTime("ControlledPauliZ", 0, 2); !ok {
		t.Fatal("cz on edge (0,2) should be available")
	}
	// Edges are undirected.
	if _, ok := dev.TwoQubitGateTime("ControlledPauliZ", 2, 0); !ok {
		t.Fatal("cz on edge (2,0) should be available")
	}
	if _, ok := dev.TwoQubitGateTime("ControlledPauliZ", 0, 1); ok {
		t.Fatal("qubits 0 and 1 are not connected")
	}
	if _, ok := dev.SingleQubitGateTime("RotateXY", 4); !ok {
		t.Fatal("RotateXY should be available on every qubit")
	}
}

func TestResonatorFreeDevice(t *testing.T) {
	dev := NewResonatorFreeDevice()

	if dev.RemoteHost() != "" {
		t.Fatalf("the device has no endpoint, got %q", dev.RemoteHost())
	}
	edges := dev.TwoQubitEdges()
	if len(edges) != 5 {
		t.Fatalf("expected a 5-edge star, got %v", edges)
	}
	for _, e := range edges {
		if e[1] != 5 {
			t.Fatalf("every edge should touch the central qubit 5, got %v", e)
		}
	}
	if _, ok := dev.TwoQubitGateTime("ControlledPauliZ", 3, 5); !ok {
		t.Fatal("cz between a leaf and the center should be available")
	}
	if _, ok := dev.TwoQubitGateTime("ControlledPauliZ", 0, 1); ok {
		t.Fatal("leaves are not connected to each other")
	}
}

func TestUnsupportedOperationError(t *testing.T) {
	err := error(&UnsupportedOperationError{Operation: "Toffoli"})
	var unsupported *UnsupportedOperationError
	if !errors.As(err, &unsupported) {
		t.Fatal("errors.As should match")
	}
	want := "operation Toffoli is not supported by the IQM backend"
	if err.Error() != want {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestAllowedNonGateOp(t *testing.T) {
	for _, name := range []string{"MeasureQubit", "DefinitionBit", "PragmaGlobalPhase"} {
		if !AllowedNonGateOp(name) {
			t.Fatalf("%s should be allowed on every device", name)
		}
	}
	if AllowedNonGateOp(circuit.NewControlledPauliZ(0, 1).Name()) {
		t.Fatal("gates are not on the allow-list")
	}
}
