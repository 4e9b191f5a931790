package iqm

import "fmt"

// BitOutputRegister holds the boolean outcome of one output register,
// one row per shot.
type BitOutputRegister [][]bool

// NewBitOutputRegister allocates a register of the given width with one
// all-false row per shot.
func NewBitOutputRegister(shots, length int) BitOutputRegister {
	reg := make(BitOutputRegister, shots)
	for i := range reg {
		reg[i] = make([]bool, length)
	}
	return reg
}

// Registers maps register names to their reassembled contents.
type Registers map[string]BitOutputRegister

// measuredQubitsFromResult recovers the measured-qubits map from the
// request echo the server returns with the results. Each circuit of the
// batch carries its own map in its metadata; the maps are merged, which
// is safe because batch validation guarantees distinct output registers
// per circuit.
func measuredQubitsFromResult(res *RunResult) (MeasuredQubitsMap, error) {
	merged := make(MeasuredQubitsMap)
	for _, wc := range res.Metadata.Request.Circuits {
		if wc.Metadata == nil {
			return nil, &MetadataError{Msg: fmt.Sprintf(
				"no measurement information found in the metadata of circuit %s returned by the server", wc.Name)}
		}
		for name, rec := range wc.Metadata {
			if _, ok := merged[name]; ok {
				return nil, &MetadataError{Msg: fmt.Sprintf(
					"register %s appears in the metadata of more than one circuit", name)}
			}
			merged[name] = rec
		}
	}
	return merged, nil
}

// ResultsToRegisters writes the raw measurement payload of a finished
// job into the output registers, using the measured-qubits map from the
// request echo to place each outcome at its register bit position. Bits
// are combined by exclusive or, so a position written several times
// within one shot ends up with the parity of its outcomes.
func ResultsToRegisters(res *RunResult, jobID string, registers Registers) error {
	mqm, err := measuredQubitsFromResult(res)
	if err != nil {
		return err
	}
	if len(res.Measurements) == 0 {
		return &EmptyResultError{ID: jobID}
	}

	filled := make(map[string]bool)
	for _, circuitResult := range res.Measurements {
		for name, rows := range circuitResult {
			rec, ok := mqm[name]
			if !ok {
				return &ResultError{Msg: fmt.Sprintf(
					"results contain register %s with no entry in the measurement metadata", name)}
			}
			out, ok := registers[name]
			if !ok {
				return &ResultError{Msg: fmt.Sprintf(
					"results contain register %s that was not declared as an output register", name)}
			}
			filled[name] = true

			if len(rows) > len(out) {
				return &ResultError{Msg: fmt.Sprintf(
					"register %s holds %d shots, expected at most %d", name, len(rows), len(out))}
			}
			for shot, row := range rows {
				if len(row) != len(rec.Positions) {
					return &ResultError{Msg: fmt.Sprintf(
						"register %s reports %d outcomes per shot, expected %d", name, len(row), len(rec.Positions))}
				}
				for j, outcome := range row {
					pos := rec.Positions[j]
					if pos >= len(out[shot]) {
						return &ResultError{Msg: fmt.Sprintf(
							"register %s has length %d, cannot place an outcome at position %d", name, len(out[shot]), pos)}
					}
					out[shot][pos] = out[shot][pos] != (outcome != 0)
				}
			}
		}
	}

	for name, rec := range mqm {
		if len(rec.Positions) > 0 && !filled[name] {
			return &ResultError{Msg: fmt.Sprintf(
				"no results returned for measured register %s", name)}
		}
	}
	return nil
}
