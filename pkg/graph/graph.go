// Package graph validates a decoded variables payload and indexes it for resolution.
//
// Build is the only way to obtain an Index. It checks referential integrity of the whole
// graph and fails closed: every violation is reported and no entry is silently dropped.
// An Index is immutable and safe for concurrent readers.
package graph

import (
	"maps"
	"slices"

	"github.com/kataras/figma-tokens/pkg/errors"
	"github.com/kataras/figma-tokens/pkg/figma"
)

// Index is a validated, read-only view of one variables payload. Collections and variables
// are kept in payload declaration order; lookups by id and by name are O(1).
type Index struct {
	collections []figma.VariableCollection
	variables   []figma.Variable

	collectionByID   map[string]int
	collectionByName map[string]int
	variableByID     map[string]int
	variableByName   map[qualifiedName]int
	modes            map[string]map[string]int // collection id -> mode id -> position
}

type qualifiedName struct {
	collection string
	variable   string
}

// BuildPayload is Build over a decoded payload.
func BuildPayload(p *figma.VariablesPayload) (*Index, error) {
	return Build(p.VariableCollections, p.Variables)
}

// Build validates the raw graph and returns its index. On failure the returned error is an
// errors.List of ErrMalformed errors, one per violation.
func Build(collections []figma.VariableCollection, variables []figma.Variable) (*Index, error) {
	idx := &Index{
		collections:      slices.Clone(collections),
		variables:        slices.Clone(variables),
		collectionByID:   make(map[string]int, len(collections)),
		collectionByName: make(map[string]int, len(collections)),
		variableByID:     make(map[string]int, len(variables)),
		variableByName:   make(map[qualifiedName]int, len(variables)),
		modes:            make(map[string]map[string]int, len(collections)),
	}

	var errs errors.List
	// First pass: collections and their modes.
	errs = append(errs, idx.indexCollections()...)
	// Second pass: variables, their owner and their per-mode values.
	errs = append(errs, idx.indexVariables()...)
	// Third pass: collection membership in both directions.
	errs = append(errs, idx.checkMembership()...)

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *Index) indexCollections() errors.List {
	var errs errors.List

	for i, c := range idx.collections {
		if c.ID == "" {
			errs = append(errs, errors.Malformed("collection %q at position %d has an empty id", c.Name, i))
			continue
		}
		if _, dup := idx.collectionByID[c.ID]; dup {
			errs = append(errs, errors.Malformed("collection %q is declared more than once", c.ID).
				WithDetail("collection", c.ID))
			continue
		}
		idx.collectionByID[c.ID] = i

		if prev, dup := idx.collectionByName[c.Name]; dup {
			errs = append(errs, errors.Malformed("collections %q and %q share the name %q", idx.collections[prev].ID, c.ID, c.Name).
				WithDetail("collection", c.ID))
		} else {
			idx.collectionByName[c.Name] = i
		}

		if len(c.Modes) == 0 {
			errs = append(errs, errors.Malformed("collection %q declares no modes", c.ID).
				WithDetail("collection", c.ID))
		}

		modes := make(map[string]int, len(c.Modes))
		for pos, m := range c.Modes {
			if m.ModeID == "" {
				errs = append(errs, errors.Malformed("collection %q has a mode with an empty id at position %d", c.ID, pos).
					WithDetail("collection", c.ID))
				continue
			}
			if _, dup := modes[m.ModeID]; dup {
				errs = append(errs, errors.Malformed("collection %q declares mode %q more than once", c.ID, m.ModeID).
					WithDetail("collection", c.ID).WithDetail("mode", m.ModeID))
				continue
			}
			modes[m.ModeID] = pos
		}
		idx.modes[c.ID] = modes

		if _, ok := modes[c.DefaultModeID]; !ok && len(c.Modes) > 0 {
			errs = append(errs, errors.Malformed("collection %q has default mode %q which is not one of its modes", c.ID, c.DefaultModeID).
				WithDetail("collection", c.ID).WithDetail("mode", c.DefaultModeID))
		}
	}

	return errs
}

func (idx *Index) indexVariables() errors.List {
	var errs errors.List

	for i, v := range idx.variables {
		if v.ID == "" {
			errs = append(errs, errors.Malformed("variable %q at position %d has an empty id", v.Name, i))
			continue
		}
		if _, dup := idx.variableByID[v.ID]; dup {
			errs = append(errs, errors.Malformed("variable %q is declared more than once", v.ID).
				WithDetail("variable", v.ID))
			continue
		}
		idx.variableByID[v.ID] = i

		ci, ok := idx.collectionByID[v.VariableCollectionID]
		if !ok {
			errs = append(errs, errors.Malformed("variable %q belongs to unknown collection %q", v.ID, v.VariableCollectionID).
				WithDetail("variable", v.ID).WithDetail("collection", v.VariableCollectionID))
			continue
		}
		collection := &idx.collections[ci]

		key := qualifiedName{collection: collection.Name, variable: v.Name}
		if prev, dup := idx.variableByName[key]; dup {
			errs = append(errs, errors.Malformed("variables %q and %q share the name %q in collection %q", idx.variables[prev].ID, v.ID, v.Name, collection.ID).
				WithDetail("variable", v.ID).WithDetail("collection", collection.ID))
		} else {
			idx.variableByName[key] = i
		}

		errs = append(errs, idx.checkValues(&v, collection)...)
	}

	return errs
}

// checkValues validates every valuesByMode entry of v against its owning collection.
func (idx *Index) checkValues(v *figma.Variable, collection *figma.VariableCollection) errors.List {
	var errs errors.List
	modes := idx.modes[collection.ID]

	// Sorted for a deterministic report.
	for _, modeID := range slices.Sorted(maps.Keys(v.ValuesByMode)) {
		if _, ok := modes[modeID]; !ok {
			errs = append(errs, errors.Malformed("variable %q has a value for mode %q which collection %q does not declare", v.ID, modeID, collection.ID).
				WithDetail("variable", v.ID).WithDetail("collection", collection.ID).WithDetail("mode", modeID))
			continue
		}

		switch value := v.ValuesByMode[modeID].(type) {
		case nil:
			errs = append(errs, errors.Malformed("variable %q has an empty value for mode %q", v.ID, modeID).
				WithDetail("variable", v.ID).WithDetail("mode", modeID))
			continue
		case figma.Alias:
			if value.ID == "" {
				errs = append(errs, errors.Malformed("variable %q has an alias with an empty target for mode %q", v.ID, modeID).
					WithDetail("variable", v.ID).WithDetail("mode", modeID))
			}
			continue
		case figma.Color:
			if !value.InRange() {
				errs = append(errs, errors.Malformed("variable %q has color %+v outside [0,1] for mode %q", v.ID, value, modeID).
					WithDetail("variable", v.ID).WithDetail("mode", modeID))
			}
		case figma.Number, figma.String, figma.Boolean:
		}

		value := v.ValuesByMode[modeID]
		if v.ResolvedType != "" && value.Kind().ResolvedType() != v.ResolvedType {
			errs = append(errs, errors.Malformed("variable %q declares type %s but has a %s value for mode %q", v.ID, v.ResolvedType, value.Kind(), modeID).
				WithDetail("variable", v.ID).WithDetail("mode", modeID))
		}
	}

	return errs
}

func (idx *Index) checkMembership() errors.List {
	var errs errors.List
	listedBy := make(map[string]string, len(idx.variables)) // variable id -> collection id

	for i, c := range idx.collections {
		// Skip entries rejected in the first pass.
		if pos, ok := idx.collectionByID[c.ID]; !ok || pos != i {
			continue
		}
		for _, id := range c.VariableIDs {
			if prev, dup := listedBy[id]; dup {
				errs = append(errs, errors.Malformed("variable %q is listed by both collection %q and collection %q", id, prev, c.ID).
					WithDetail("variable", id).WithDetail("collection", c.ID))
				continue
			}
			listedBy[id] = c.ID

			vi, ok := idx.variableByID[id]
			if !ok {
				errs = append(errs, errors.Malformed("collection %q lists unknown variable %q", c.ID, id).
					WithDetail("collection", c.ID).WithDetail("variable", id))
				continue
			}
			if owner := idx.variables[vi].VariableCollectionID; owner != c.ID {
				errs = append(errs, errors.Malformed("collection %q lists variable %q which belongs to collection %q", c.ID, id, owner).
					WithDetail("collection", c.ID).WithDetail("variable", id))
			}
		}
	}

	for _, v := range idx.variables {
		if v.ID == "" {
			continue
		}
		if _, ok := listedBy[v.ID]; !ok {
			errs = append(errs, errors.Malformed("variable %q is not listed by any collection", v.ID).
				WithDetail("variable", v.ID).WithDetail("collection", v.VariableCollectionID))
		}
	}

	return errs
}

// Collections returns every collection in declaration order. The slice must not be modified.
func (idx *Index) Collections() []figma.VariableCollection { return idx.collections }

// Variables returns every variable in declaration order. The slice must not be modified.
func (idx *Index) Variables() []figma.Variable { return idx.variables }

// Collection looks up a collection by id.
func (idx *Index) Collection(id string) (*figma.VariableCollection, bool) {
	i, ok := idx.collectionByID[id]
	if !ok {
		return nil, false
	}
	return &idx.collections[i], true
}

// CollectionByName looks up a collection by its name.
func (idx *Index) CollectionByName(name string) (*figma.VariableCollection, bool) {
	i, ok := idx.collectionByName[name]
	if !ok {
		return nil, false
	}
	return &idx.collections[i], true
}

// Variable looks up a variable by id.
func (idx *Index) Variable(id string) (*figma.Variable, bool) {
	i, ok := idx.variableByID[id]
	if !ok {
		return nil, false
	}
	return &idx.variables[i], true
}

// VariableByName looks up a variable by its name within the named collection.
func (idx *Index) VariableByName(collectionName, name string) (*figma.Variable, bool) {
	i, ok := idx.variableByName[qualifiedName{collection: collectionName, variable: name}]
	if !ok {
		return nil, false
	}
	return &idx.variables[i], true
}

// Owner returns the collection a variable belongs to.
func (idx *Index) Owner(v *figma.Variable) *figma.VariableCollection {
	c, _ := idx.Collection(v.VariableCollectionID)
	return c
}

// HasMode reports whether the collection declares the mode.
func (idx *Index) HasMode(collectionID, modeID string) bool {
	_, ok := idx.modes[collectionID][modeID]
	return ok
}

// Mode returns the named mode of a collection.
func (idx *Index) Mode(collectionID, modeID string) (figma.Mode, bool) {
	pos, ok := idx.modes[collectionID][modeID]
	if !ok {
		return figma.Mode{}, false
	}
	c, _ := idx.Collection(collectionID)
	return c.Modes[pos], true
}
