// Package circuit defines the hardware-agnostic quantum circuit model
// consumed by the IQM client. A Circuit is an ordered sequence of
// operations; register declarations are ordinary operations so that a
// single forward pass sees declarations before the measurements that
// write to them.
package circuit

// Circuit is an ordered sequence of operations plus register
// declarations, independent of any target device.
type Circuit []Operation

// Definitions returns the bit-register declarations of the circuit, in
// order of appearance.
func (c Circuit) Definitions() []DefinitionBit {
	var defs []DefinitionBit
	for _, op := range c {
		if def, ok := op.(DefinitionBit); ok {
			defs = append(defs, def)
		}
	}
	return defs
}

// HighestQubit returns the largest qubit index touched by any operation
// in the circuit. The second return value is false when no operation
// touches a qubit, i.e. the circuit is effectively empty.
func (c Circuit) HighestQubit() (int, bool) {
	highest, found := 0, false
	for _, op := range c {
		for _, q := range op.InvolvedQubits() {
			if !found || q > highest {
				highest = q
			}
			found = true
		}
	}
	return highest, found
}
