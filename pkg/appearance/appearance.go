// Package appearance projects collection-local modes onto platform-neutral appearance tags.
package appearance

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/kataras/figma-tokens/pkg/figma"
)

// Match selects how mode names are compared with the recognized tags.
type Match string

const (
	// MatchFold compares names case-insensitively (Unicode case folding).
	MatchFold Match = "fold"
	// MatchExact compares names byte for byte.
	MatchExact Match = "exact"
)

// ParseMatch validates a match policy name. An empty string selects MatchFold.
func ParseMatch(s string) (Match, error) {
	switch Match(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchFold:
		return MatchFold, nil
	case MatchExact:
		return MatchExact, nil
	default:
		return "", fmt.Errorf("unknown appearance match policy %q (must be fold or exact)", s)
	}
}

// Policy configures a Projector.
type Policy struct {
	// Recognized lists the canonical tags. A mode whose name matches one of them
	// projects to that tag as written here.
	Recognized []string
	// Match is the comparison used for Recognized and Rename keys.
	Match Match
	// Rename maps a mode name to an explicit tag and takes precedence over Recognized,
	// e.g. "Default" -> "light".
	Rename map[string]string
}

// DefaultPolicy recognizes "light" and "dark" case-insensitively.
func DefaultPolicy() Policy {
	return Policy{
		Recognized: []string{"light", "dark"},
		Match:      MatchFold,
	}
}

// Projector maps modes to appearance tags. It holds no mutable state and is safe for
// concurrent use.
type Projector struct {
	match      Match
	recognized map[string]string // normalized name -> tag
	rename     map[string]string // normalized name -> tag
}

// New returns a Projector for the policy. An empty Match is treated as MatchFold.
func New(policy Policy) *Projector {
	p := &Projector{
		match:      policy.Match,
		recognized: make(map[string]string, len(policy.Recognized)),
		rename:     make(map[string]string, len(policy.Rename)),
	}
	if p.match == "" {
		p.match = MatchFold
	}

	for _, tag := range policy.Recognized {
		key := p.normalize(tag)
		if _, dup := p.recognized[key]; !dup {
			p.recognized[key] = tag
		}
	}
	// Keys are visited sorted; of two colliding keys the first wins.
	for _, name := range slices.Sorted(maps.Keys(policy.Rename)) {
		key := p.normalize(name)
		if _, dup := p.rename[key]; !dup {
			p.rename[key] = policy.Rename[name]
		}
	}
	return p
}

// CheckRename returns an error for two Rename keys that match the same mode name under
// the policy's Match but map to different tags.
func (policy Policy) CheckRename() error {
	p := &Projector{match: policy.Match}
	if p.match == "" {
		p.match = MatchFold
	}

	seen := make(map[string]string, len(policy.Rename)) // normalized name -> first key
	for _, name := range slices.Sorted(maps.Keys(policy.Rename)) {
		key := p.normalize(name)
		first, dup := seen[key]
		if !dup {
			seen[key] = name
			continue
		}
		if policy.Rename[first] != policy.Rename[name] {
			return fmt.Errorf("modes %q and %q are the same name under %s matching but rename to %q and %q",
				first, name, p.match, policy.Rename[first], policy.Rename[name])
		}
	}
	return nil
}

func (p *Projector) normalize(name string) string {
	name = strings.TrimSpace(name)
	if p.match == MatchExact {
		return name
	}
	// A Caser is stateful; one per call keeps the Projector shareable.
	return cases.Fold().String(name)
}

// Tag returns the appearance tag for a mode name. Unrecognized names are preserved
// verbatim as custom tags.
func (p *Projector) Tag(modeName string) string {
	key := p.normalize(modeName)
	if tag, ok := p.rename[key]; ok {
		return tag
	}
	if tag, ok := p.recognized[key]; ok {
		return tag
	}
	return modeName
}

// Recognizes reports whether a mode name is renamed or matches a recognized tag.
func (p *Projector) Recognizes(modeName string) bool {
	key := p.normalize(modeName)
	_, renamed := p.rename[key]
	_, recognized := p.recognized[key]
	return renamed || recognized
}

// Project returns the appearance tag of a collection's mode. It never fails: a mode id the
// collection does not declare projects to the id itself.
func (p *Projector) Project(c *figma.VariableCollection, modeID string) string {
	for _, m := range c.Modes {
		if m.ModeID == modeID {
			return p.Tag(m.Name)
		}
	}
	return modeID
}
