// Package testutil builds variables payloads for tests.
package testutil

import "github.com/kataras/figma-tokens/pkg/figma"

// Builder assembles a payload in declaration order. Variables are registered in their
// collection's variableIds automatically.
type Builder struct {
	payload figma.VariablesPayload
}

// NewPayload returns an empty Builder.
func NewPayload() *Builder {
	return &Builder{}
}

// Mode is shorthand for a figma.Mode.
func Mode(id, name string) figma.Mode {
	return figma.Mode{ModeID: id, Name: name}
}

// RGBA is shorthand for an opaque-or-not figma.Color.
func RGBA(r, g, b, a float64) figma.Color {
	return figma.Color{R: r, G: g, B: b, A: a}
}

// Collection declares a collection whose default mode is the first mode given.
func (b *Builder) Collection(id, name string, modes ...figma.Mode) *Builder {
	c := figma.VariableCollection{ID: id, Name: name, Modes: modes}
	if len(modes) > 0 {
		c.DefaultModeID = modes[0].ModeID
	}
	b.payload.VariableCollections = append(b.payload.VariableCollections, c)
	return b
}

// Variable declares a variable in the given collection.
func (b *Builder) Variable(id, name, collectionID string, values figma.ModeValues) *Builder {
	b.payload.Variables = append(b.payload.Variables, figma.Variable{
		ID:                   id,
		Name:                 name,
		VariableCollectionID: collectionID,
		ValuesByMode:         values,
	})
	for i := range b.payload.VariableCollections {
		if b.payload.VariableCollections[i].ID == collectionID {
			b.payload.VariableCollections[i].VariableIDs = append(b.payload.VariableCollections[i].VariableIDs, id)
		}
	}
	return b
}

// Edit applies fn to the payload built so far, for tests that need to break it.
func (b *Builder) Edit(fn func(p *figma.VariablesPayload)) *Builder {
	fn(&b.payload)
	return b
}

// Payload returns the built payload.
func (b *Builder) Payload() *figma.VariablesPayload {
	p := b.payload
	return &p
}

// Colors returns the scenario used throughout the tests: collection "Colors" with modes
// Light (default) and Dark, "brand/primary" set only for Light, and "brand/accent" aliasing
// it for Light.
func Colors() *Builder {
	return NewPayload().
		Collection("c:colors", "Colors", Mode("m:light", "Light"), Mode("m:dark", "Dark")).
		Variable("v:primary", "brand/primary", "c:colors", figma.ModeValues{
			"m:light": RGBA(1, 0, 0, 1),
		}).
		Variable("v:accent", "brand/accent", "c:colors", figma.ModeValues{
			"m:light": figma.Alias{ID: "v:primary"},
		})
}
