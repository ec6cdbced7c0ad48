// Package processor implements the TaskProcessor dataflow operator of
// spec §4.2: for each resolved binding of a process's declared inputs it
// runs invokeTask through the guard, fingerprint, and cache probe/submit
// pipeline described in §4.2/§4.5/§4.6.
package processor

import (
	"github.com/shihabhasan/nextflow/internal/core/domain"
	"go.trai.ch/zerr"
)

// Binding is one resolved tuple of a process's declared inputs: scalar/each
// values by parameter name, plus the unstaged raw file values by parameter
// name for file inputs.
type Binding struct {
	Index int
	Values map[string]string
	Files  map[string][]string
}

// computeBindings realizes the forwarding operator of §4.2: value/file
// inputs are matched tuple-wise (the k-th entry of every non-each channel
// pairs together), and each-declared inputs are expanded through the
// Cartesian product against every such tuple, exactly the "fixed combinator"
// described in the design note replacing runtime code generation.
func computeBindings(proc *domain.Process) ([]Binding, error) {
	var tupleInputs []*domain.InputParam
	var eachInputs []*domain.InputParam

	for i := range proc.Inputs {
		in := &proc.Inputs[i]
		if in.Kind == domain.InputKindEach {
			eachInputs = append(eachInputs, in)
		} else {
			tupleInputs = append(tupleInputs, in)
		}
	}

	n := 1
	if len(tupleInputs) > 0 {
		n = len(tupleInputs[0].Values)
		for _, in := range tupleInputs[1:] {
			if len(in.Values) != n {
				return nil, zerr.With(zerr.With(domain.ErrMissingDependency,
					"process", proc.Name.String()), "input", in.Name.String())
			}
		}
	}

	var bindings []Binding
	idx := 0
	for k := 0; k < n; k++ {
		base := Binding{Values: map[string]string{}, Files: map[string][]string{}}
		for _, in := range tupleInputs {
			if in.Kind == domain.InputKindFile {
				base.Files[in.Name.String()] = splitBag(valueAt(in.Values, k))
			} else {
				base.Values[in.Name.String()] = valueAt(in.Values, k)
			}
		}

		combos := CartesianForward(eachInputs)
		if len(combos) == 0 {
			combos = []map[string]string{{}}
		}
		for _, combo := range combos {
			b := Binding{Index: idx, Values: map[string]string{}, Files: map[string][]string{}}
			for name, v := range base.Values {
				b.Values[name] = v
			}
			for name, v := range base.Files {
				b.Files[name] = v
			}
			for name, v := range combo {
				b.Values[name] = v
			}
			bindings = append(bindings, b)
			idx++
		}
	}
	return bindings, nil
}

// CartesianForward computes one combination per element of the Cartesian
// product across each-input's declared value sets, per §9's "fixed
// combinator parameterized by the each indices" design note.
func CartesianForward(eachInputs []*domain.InputParam) []map[string]string {
	if len(eachInputs) == 0 {
		return nil
	}

	combos := []map[string]string{{}}
	for _, in := range eachInputs {
		var next []map[string]string
		for _, c := range combos {
			for _, v := range in.Values {
				nc := make(map[string]string, len(c)+1)
				for k, vv := range c {
					nc[k] = vv
				}
				nc[in.Name.String()] = v
				next = append(next, nc)
			}
		}
		combos = next
	}
	return combos
}

func valueAt(values []string, k int) string {
	if k < len(values) {
		return values[k]
	}
	return ""
}

func splitBag(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}
