package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kataras/figma-tokens/pkg/assembler"
	"github.com/kataras/figma-tokens/pkg/figma"
)

// ToMarkdown transforms resolved variables into a well-formatted markdown document.
// The output starts with one block of CSS custom properties per appearance tag, ready to be
// pasted into a design system stylesheet, followed by a reference table per group.
// Variables without a value for a tag are left out of that tag's block.
func ToMarkdown(vars []assembler.ResolvedVariable, groups []assembler.Group, title string) string {
	var sb strings.Builder

	if title != "" {
		sb.WriteString(fmt.Sprintf("# Figma Design Tokens - %s\n\n", title))
	} else {
		sb.WriteString("# Figma Design Tokens\n\n")
	}
	sb.WriteString("This document contains the design tokens resolved from the Figma variables, with every alias replaced by its value.\n\n")

	tags := appearances(vars)

	sb.WriteString("## CSS Custom Properties\n\n")
	for _, tag := range tags {
		sb.WriteString(fmt.Sprintf("### %s\n\n", tag))
		sb.WriteString("```css\n")

		for _, g := range groups {
			var wrote bool
			for _, v := range g.Variables {
				value, ok := v.Value(tag)
				if !ok {
					continue
				}
				if !wrote && g.Name != "" {
					sb.WriteString(fmt.Sprintf("/* %s */\n", g.Name))
				}
				wrote = true
				sb.WriteString(fmt.Sprintf("--%s: %s;\n", toKebabCase(v.Name), cssValue(value)))
			}
			if wrote {
				sb.WriteString("\n")
			}
		}

		sb.WriteString("```\n\n")
	}

	sb.WriteString("## Token Reference\n\n")
	for _, g := range groups {
		name := g.Name
		if name == "" {
			name = "Ungrouped"
		}
		sb.WriteString(fmt.Sprintf("### %s\n\n", name))

		columns := appearances(g.Variables)
		sb.WriteString("| Token | Collection |")
		for _, tag := range columns {
			sb.WriteString(fmt.Sprintf(" %s |", tag))
		}
		sb.WriteString("\n|-------|------------|")
		for range columns {
			sb.WriteString("------|")
		}
		sb.WriteString("\n")

		for _, v := range g.Variables {
			sb.WriteString(fmt.Sprintf("| `%s` | %s |", v.Name, v.Collection))
			for _, tag := range columns {
				cell := "-"
				if value, ok := v.Value(tag); ok {
					cell = fmt.Sprintf("`%s`", cssValue(value))
				}
				sb.WriteString(fmt.Sprintf(" %s |", cell))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// appearances returns the union of the variables' tags in order of first appearance.
func appearances(vars []assembler.ResolvedVariable) []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, v := range vars {
		for _, tag := range v.Appearances {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

func cssValue(v figma.ResolvedValue) string {
	switch v := v.(type) {
	case figma.Color:
		return v.Hex()
	case figma.Number:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case figma.String:
		return strconv.Quote(string(v))
	case figma.Boolean:
		return strconv.FormatBool(bool(v))
	default:
		return fmt.Sprint(v)
	}
}

// toKebabCase converts a string to kebab-case format (lowercase with hyphens).
// This is used for generating CSS variable names from Figma variable names.
// Path separators, spaces and underscores become hyphens, other special characters are removed.
func toKebabCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, assembler.PathSeparator, "-")
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	// Remove any non-alphanumeric characters except hyphens
	var result strings.Builder
	var prev rune
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			if r == '-' && prev == '-' {
				continue
			}
			result.WriteRune(r)
			prev = r
		}
	}

	return strings.Trim(result.String(), "-")
}
