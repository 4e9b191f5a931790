// Package config loads job descriptions from YAML files and builds the
// circuits they describe.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/qrithm/iqm-client/circuit"
)

// JobSpec describes one submission: the target device and the circuits
// of the batch.
type JobSpec struct {
	// Device selects the target device, e.g. "deneb" or "demo".
	Device string `yaml:"device"`
	// Endpoint overrides the device's production endpoint when set.
	Endpoint string `yaml:"endpoint,omitempty"`
	// Shots forces the shot count of every circuit when positive.
	Shots int `yaml:"shots,omitempty"`
	// Heralding selects the service's heralding mode ("none" or
	// "zeros").
	Heralding string `yaml:"heralding,omitempty"`
	// Timeout bounds the wait for results, in time.ParseDuration
	// notation, e.g. "90s".
	Timeout string `yaml:"timeout,omitempty"`

	Circuits []CircuitSpec `yaml:"circuits"`
}

// CircuitSpec describes one circuit as an ordered list of operations.
type CircuitSpec struct {
	Name       string          `yaml:"name,omitempty"`
	Operations []OperationSpec `yaml:"operations"`
}

// OperationSpec describes one operation. Op selects the operation; the
// remaining fields apply depending on it.
type OperationSpec struct {
	// Op is the operation name: definition, measure, rx (a rotation in
	// the XY plane), cz, cz_resonator, load, store, repeat (a loop over
	// nested operations) or set_measurements.
	Op string `yaml:"op"`

	// Register naming and sizing, for definition, measure,
	// set_measurements.
	Register string `yaml:"register,omitempty"`
	Length   int    `yaml:"length,omitempty"`
	Index    int    `yaml:"index,omitempty"`

	// Qubit selection.
	Qubit   int `yaml:"qubit,omitempty"`
	Control int `yaml:"control,omitempty"`
	Target  int `yaml:"target,omitempty"`
	Mode    int `yaml:"mode,omitempty"`

	// Rotation angles in radians.
	Theta float64 `yaml:"theta,omitempty"`
	Phi   float64 `yaml:"phi,omitempty"`

	// Shot counts for set_measurements, repetition counts for repeat.
	Shots int `yaml:"shots,omitempty"`
	Times int `yaml:"times,omitempty"`

	// Nested operations of a repeat.
	Body []OperationSpec `yaml:"body,omitempty"`
}

// Load reads a job spec from a YAML file.
func Load(path string) (*JobSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job spec: %w", err)
	}
	var spec JobSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse job spec: %w", err)
	}
	if spec.Device == "" {
		return nil, fmt.Errorf("job spec: device is required")
	}
	if len(spec.Circuits) == 0 {
		return nil, fmt.Errorf("job spec: at least one circuit is required")
	}
	if spec.Timeout != "" {
		if _, err := time.ParseDuration(spec.Timeout); err != nil {
			return nil, fmt.Errorf("job spec: invalid timeout: %w", err)
		}
	}
	return &spec, nil
}

// WaitBudget returns the parsed timeout, or zero when the job does not
// set one.
func (s *JobSpec) WaitBudget() time.Duration {
	d, _ := time.ParseDuration(s.Timeout)
	return d
}

// Build constructs the circuits of the batch.
func (s *JobSpec) Build() ([]circuit.Circuit, error) {
	batch := make([]circuit.Circuit, 0, len(s.Circuits))
	for i, cs := range s.Circuits {
		c, err := buildCircuit(cs.Operations)
		if err != nil {
			name := cs.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i+1)
			}
			return nil, fmt.Errorf("circuit %s: %w", name, err)
		}
		batch = append(batch, c)
	}
	return batch, nil
}

func buildCircuit(ops []OperationSpec) (circuit.Circuit, error) {
	var c circuit.Circuit
	for _, op := range ops {
		built, err := buildOperation(op)
		if err != nil {
			return nil, err
		}
		c = append(c, built)
	}
	return c, nil
}

func buildOperation(op OperationSpec) (circuit.Operation, error) {
	switch op.Op {
	case "definition":
		if op.Register == "" {
			return nil, fmt.Errorf("definition needs a register name")
		}
		if op.Length <= 0 {
			return nil, fmt.Errorf("definition of register %s needs a positive length", op.Register)
		}
		return circuit.NewDefinitionBit(op.Register, op.Length, true), nil
	case "measure":
		if op.Register == "" {
			return nil, fmt.Errorf("measure needs a register name")
		}
		return circuit.NewMeasureQubit(op.Qubit, op.Register, op.Index), nil
	case "rx":
		return circuit.NewRotateXY(op.Qubit, circuit.Float(op.Theta), circuit.Float(op.Phi)), nil
	case "cz":
		return circuit.NewControlledPauliZ(op.Control, op.Target), nil
	case "cz_resonator":
		return circuit.NewCZQubitResonator(op.Qubit, op.Mode), nil
	case "load":
		return circuit.NewSingleExcitationLoad(op.Qubit, op.Mode), nil
	case "store":
		return circuit.NewSingleExcitationStore(op.Qubit, op.Mode), nil
	case "set_measurements":
		if op.Register == "" {
			return nil, fmt.Errorf("set_measurements needs a register name")
		}
		if op.Shots <= 0 {
			return nil, fmt.Errorf("set_measurements needs a positive shot count")
		}
		return circuit.NewPragmaSetNumberOfMeasurements(op.Shots, op.Register), nil
	case "repeat":
		if op.Times <= 0 {
			return nil, fmt.Errorf("repeat needs a positive repetition count")
		}
		if len(op.Body) == 0 {
			return nil, fmt.Errorf("repeat needs a non-empty body")
		}
		inner, err := buildCircuit(op.Body)
		if err != nil {
			return nil, err
		}
		return circuit.NewPragmaLoop(circuit.Float(float64(op.Times)), inner), nil
	case "":
		return nil, fmt.Errorf("operation is missing the op field")
	default:
		return nil, fmt.Errorf("unknown operation %q", op.Op)
	}
}
