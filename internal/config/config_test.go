package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qrithm/iqm-client/circuit"
)

const sampleSpec = `
device: deneb
shots: 100
circuits:
  - name: bell-ish
    operations:
      - op: definition
        register: ro
        length: 2
      - op: rx
        qubit: 0
        theta: 3.14159
      - op: store
        qubit: 0
      - op: repeat
        times: 2
        body:
          - op: rx
            qubit: 1
            theta: 1.5
      - op: load
        qubit: 0
      - op: measure
        qubit: 0
        register: ro
        index: 0
      - op: measure
        qubit: 1
        register: ro
        index: 1
`

func writeSpec(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	return path
}

func TestLoadAndBuild(t *testing.T) {
	spec, err := Load(writeSpec(t, sampleSpec))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Device != "deneb" || spec.Shots != 100 {
		t.Fatalf("unexpected spec header: %+v", spec)
	}

	batch, err := spec.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("expected one circuit, got %d", len(batch))
	}

	c := batch[0]
	if len(c) != 7 {
		t.Fatalf("expected 7 operations, got %d", len(c))
	}
	if _, ok := c[0].(circuit.DefinitionBit); !ok {
		t.Fatalf("expected a definition first, got %T", c[0])
	}
	loop, ok := c[3].(circuit.PragmaLoop)
	if !ok {
		t.Fatalf("expected a loop at index 3, got %T", c[3])
	}
	reps, _ := loop.Repetitions().Num()
	if reps != 2 || len(loop.Circuit()) != 1 {
		t.Fatalf("unexpected loop: %v reps, %d ops", reps, len(loop.Circuit()))
	}
	if m, ok := c[5].(circuit.MeasureQubit); !ok || m.Readout() != "ro" {
		t.Fatalf("unexpected measurement: %+v", c[5])
	}
}

func TestLoadRejectsMissingDevice(t *testing.T) {
	_, err := Load(writeSpec(t, "circuits:\n  - operations:\n      - op: rx\n"))
	if err == nil {
		t.Fatal("expected an error for a spec without a device")
	}
}

func TestBuildRejectsUnknownOperation(t *testing.T) {
	spec, err := Load(writeSpec(t, `
device: demo
circuits:
  - operations:
      - op: teleport
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := spec.Build(); err == nil {
		t.Fatal("expected an error for an unknown operation")
	}
}

func TestBuildRejectsDefinitionWithoutLength(t *testing.T) {
	spec, err := Load(writeSpec(t, `
device: demo
circuits:
  - operations:
      - op: definition
        register: ro
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := spec.Build(); err == nil {
		t.Fatal("expected an error for a definition without a length")
	}
}
