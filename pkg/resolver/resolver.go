// Package resolver turns every (variable, mode) pair of a validated graph into an
// alias-free value.
//
// Alias chains are followed iteratively with an explicit path of the pairs visited by the
// current chain; revisiting one of them is a cycle. Results, successful or not, are
// memoized per pair, so a value referenced by many aliases is computed once and a broken
// pair is reported once.
//
// A Resolver owns its memo table and is not safe for concurrent use. Independent runs
// create their own Resolver.
package resolver

import (
	"fmt"

	"github.com/kataras/figma-tokens/pkg/errors"
	"github.com/kataras/figma-tokens/pkg/figma"
	"github.com/kataras/figma-tokens/pkg/graph"
)

// Key identifies one (variable, mode) pair.
type Key struct {
	VariableID string
	ModeID     string
}

// String formats the pair as "variable@mode".
func (k Key) String() string {
	return k.VariableID + "@" + k.ModeID
}

// Resolver resolves alias chains over one Index.
type Resolver struct {
	idx    *graph.Index
	memo   map[Key]figma.ResolvedValue
	failed map[Key]*errors.Error
}

// New returns a Resolver for idx.
func New(idx *graph.Index) *Resolver {
	return &Resolver{
		idx:    idx,
		memo:   make(map[Key]figma.ResolvedValue),
		failed: make(map[Key]*errors.Error),
	}
}

// Resolve resolves every pair recorded in a variable's valuesByMode. Variables are visited
// in declaration order and modes in their collection's order, so the error report is
// deterministic. Every broken pair is reported: a root cause once, and every pair that
// fails only through an alias to it with an errors.Via entry. On any error the table is not
// returned and the error is an errors.List.
func (r *Resolver) Resolve() (Table, error) {
	var errs errors.List

	variables := r.idx.Variables()
	for i := range variables {
		v := &variables[i]
		for _, m := range r.idx.Owner(v).Modes {
			if _, ok := v.ValuesByMode[m.ModeID]; !ok {
				continue
			}

			value, err, fresh := r.resolve(Key{VariableID: v.ID, ModeID: m.ModeID})
			if err != nil {
				if fresh {
					errs = append(errs, err)
				}
				if !err.Names(v.ID, m.ModeID) {
					errs = append(errs, errors.Via(v.ID, m.ModeID, err))
				}
				continue
			}
			if err := checkType(v, m.ModeID, value); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if err := errs.Err(); err != nil {
		return Table{}, err
	}

	values := make(map[Key]figma.ResolvedValue, len(r.memo))
	for k, v := range r.memo {
		values[k] = v
	}
	return Table{values: values}, nil
}

// Value resolves a single pair. A variable with no value for modeID falls back to its
// collection's default mode.
func (r *Resolver) Value(variableID, modeID string) (figma.ResolvedValue, error) {
	v, ok := r.idx.Variable(variableID)
	if !ok {
		return nil, errors.Malformed("unknown variable %q", variableID).WithDetail("variable", variableID)
	}
	start, ferr := r.locate(v, modeID)
	if ferr != nil {
		return nil, ferr
	}

	value, err, _ := r.resolve(start)
	if err != nil {
		return nil, err
	}
	if err := checkType(v, modeID, value); err != nil {
		return nil, err
	}
	return value, nil
}

// checkType reports a variable whose declared resolvedType disagrees with the literal its
// value resolves to. Literal values are checked when the graph is built; this catches aliases.
func checkType(v *figma.Variable, modeID string, value figma.ResolvedValue) *errors.Error {
	if v.ResolvedType == "" || value.Kind().ResolvedType() == v.ResolvedType {
		return nil
	}
	return errors.Malformed("variable %q declares type %s but resolves to a %s value for mode %q",
		v.ID, v.ResolvedType, value.Kind(), modeID).
		WithDetail("variable", v.ID).WithDetail("mode", modeID)
}

// resolve follows the chain starting at start to its literal terminus. fresh is true when
// the error was raised by this call rather than recalled from the memo.
func (r *Resolver) resolve(start Key) (value figma.ResolvedValue, failure *errors.Error, fresh bool) {
	if v, ok := r.memo[start]; ok {
		return v, nil, false
	}
	if e, ok := r.failed[start]; ok {
		return nil, e, false
	}

	path := []Key{start}
	onPath := map[Key]struct{}{start: {}}

	for cur := start; value == nil && failure == nil; {
		variable, _ := r.idx.Variable(cur.VariableID)

		switch raw := variable.ValuesByMode[cur.ModeID].(type) {
		case figma.Alias:
			next, err := r.step(cur, raw)
			if err != nil {
				failure, fresh = err, true
				break
			}
			if v, ok := r.memo[next]; ok {
				value = v
				break
			}
			if e, ok := r.failed[next]; ok {
				failure = e
				break
			}

			path = append(path, next)
			if _, seen := onPath[next]; seen {
				failure, fresh = errors.Cycle(keyStrings(path)), true
				break
			}
			onPath[next] = struct{}{}
			cur = next
		case figma.Color:
			value = raw
		case figma.Number:
			value = raw
		case figma.String:
			value = raw
		case figma.Boolean:
			value = raw
		default:
			failure, fresh = errors.Malformed("variable %q has no usable value for mode %q", cur.VariableID, cur.ModeID).
				WithDetail("variable", cur.VariableID).WithDetail("mode", cur.ModeID), true
		}
	}

	for _, k := range path {
		if failure != nil {
			r.failed[k] = failure
		} else {
			r.memo[k] = value
		}
	}
	return value, failure, fresh
}

// step returns the pair an alias at cur points to.
func (r *Resolver) step(cur Key, alias figma.Alias) (Key, *errors.Error) {
	target, ok := r.idx.Variable(alias.ID)
	if !ok {
		return Key{}, errors.DanglingReference(cur.VariableID, alias.ID)
	}
	return r.locate(target, cur.ModeID)
}

// locate applies the cross-mode fallback rule: the pair itself when the variable has a
// value for modeID, otherwise the variable under its collection's default mode.
func (r *Resolver) locate(v *figma.Variable, modeID string) (Key, *errors.Error) {
	if _, ok := v.ValuesByMode[modeID]; ok {
		return Key{VariableID: v.ID, ModeID: modeID}, nil
	}
	def := r.idx.Owner(v).DefaultModeID
	if _, ok := v.ValuesByMode[def]; ok {
		return Key{VariableID: v.ID, ModeID: def}, nil
	}
	return Key{}, errors.MissingValue(v.ID, modeID)
}

func keyStrings(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

// Table maps every resolved (variable, mode) pair to its literal value.
type Table struct {
	values map[Key]figma.ResolvedValue
}

// Len returns the number of resolved pairs.
func (t Table) Len() int { return len(t.values) }

// Get returns the value resolved for exactly this pair.
func (t Table) Get(variableID, modeID string) (figma.ResolvedValue, bool) {
	v, ok := t.values[Key{VariableID: variableID, ModeID: modeID}]
	return v, ok
}

// Lookup returns the value of a variable under modeID, falling back to the value under its
// collection's default mode when the variable records none for modeID.
func (t Table) Lookup(idx *graph.Index, variableID, modeID string) (figma.ResolvedValue, error) {
	if v, ok := t.Get(variableID, modeID); ok {
		return v, nil
	}

	variable, ok := idx.Variable(variableID)
	if !ok {
		return nil, fmt.Errorf("lookup: %w", errors.Malformed("unknown variable %q", variableID).WithDetail("variable", variableID))
	}
	if v, ok := t.Get(variableID, idx.Owner(variable).DefaultModeID); ok {
		return v, nil
	}
	return nil, errors.MissingValue(variableID, modeID)
}
