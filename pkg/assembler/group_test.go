package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func names(g Group) []string {
	var out []string
	for _, v := range g.Variables {
		out = append(out, v.Name)
	}
	return out
}

func TestPathPrefix(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		want  string
	}{
		{"primary", 1, ""},
		{"brand/primary", 1, "brand"},
		{"color/brand/primary", 1, "color"},
		{"color/brand/primary", 2, "color/brand"},
		{"color/brand/primary", 5, "color/brand"},
		{"color/brand/primary", 0, "color/brand"},
		{"color / brand/primary", 2, "color/brand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PathPrefix(tt.name, tt.depth))
		})
	}
}

func TestGroupByPath(t *testing.T) {
	vars := []ResolvedVariable{
		{Name: "color/text/primary"},
		{Name: "spacing/sm"},
		{Name: "color/bg/surface"},
		{Name: "opacity"},
		{Name: "spacing/md"},
	}

	groups := GroupByPath(vars, 1)
	assert.Len(t, groups, 3)

	assert.Equal(t, "color", groups[0].Name)
	assert.Equal(t, []string{"color/text/primary", "color/bg/surface"}, names(groups[0]))
	assert.Equal(t, "spacing", groups[1].Name)
	assert.Equal(t, []string{"spacing/sm", "spacing/md"}, names(groups[1]))
	assert.Equal(t, "", groups[2].Name)
	assert.Equal(t, []string{"opacity"}, names(groups[2]))
}

func TestGroupByCollection(t *testing.T) {
	vars := []ResolvedVariable{
		{Name: "a", Collection: "Semantic"},
		{Name: "b", Collection: "Primitives"},
		{Name: "c", Collection: "Semantic"},
	}

	groups := GroupByCollection(vars)
	assert.Len(t, groups, 2)
	assert.Equal(t, "Semantic", groups[0].Name)
	assert.Equal(t, []string{"a", "c"}, names(groups[0]))
	assert.Equal(t, "Primitives", groups[1].Name)
}

func TestGroupByPath_Empty(t *testing.T) {
	assert.Empty(t, GroupByPath(nil, 1))
}
