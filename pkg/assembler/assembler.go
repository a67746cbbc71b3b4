// Package assembler turns a resolved table back into one record per variable, ordered as
// the variables were declared, and groups those records for renderers.
package assembler

import (
	"github.com/kataras/figma-tokens/pkg/appearance"
	"github.com/kataras/figma-tokens/pkg/errors"
	"github.com/kataras/figma-tokens/pkg/figma"
	"github.com/kataras/figma-tokens/pkg/graph"
	"github.com/kataras/figma-tokens/pkg/resolver"
)

// ResolvedVariable is a token with every alias removed, exposing one literal value per
// appearance tag. It holds no reference into the raw graph.
type ResolvedVariable struct {
	Name        string
	Collection  string
	Description string
	// Appearances lists the tags of PerAppearance in the collection's mode order.
	Appearances   []string
	PerAppearance map[string]figma.ResolvedValue
}

// Value returns the value for an appearance tag.
func (v ResolvedVariable) Value(tag string) (figma.ResolvedValue, bool) {
	val, ok := v.PerAppearance[tag]
	return val, ok
}

// Assemble builds one ResolvedVariable per variable in declaration order. Every mode the
// owning collection declares is covered: a variable without a value for a mode inherits its
// default-mode value. When two modes project to the same tag the first declared one wins.
func Assemble(table resolver.Table, idx *graph.Index, projector *appearance.Projector) ([]ResolvedVariable, error) {
	variables := idx.Variables()
	out := make([]ResolvedVariable, 0, len(variables))
	var errs errors.List

	for i := range variables {
		v := &variables[i]
		c := idx.Owner(v)

		rv := ResolvedVariable{
			Name:          v.Name,
			Collection:    c.Name,
			Description:   v.Description,
			Appearances:   make([]string, 0, len(c.Modes)),
			PerAppearance: make(map[string]figma.ResolvedValue, len(c.Modes)),
		}

		for _, m := range c.Modes {
			tag := projector.Project(c, m.ModeID)
			if _, taken := rv.PerAppearance[tag]; taken {
				continue
			}

			value, err := table.Lookup(idx, v.ID, m.ModeID)
			if err != nil {
				errs = append(errs, errors.AsList(err)...)
				continue
			}
			rv.Appearances = append(rv.Appearances, tag)
			rv.PerAppearance[tag] = value
		}

		out = append(out, rv)
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
