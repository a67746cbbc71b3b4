package assembler

import "strings"

// PathSeparator separates the segments of a variable name, as in "color/brand/primary".
const PathSeparator = "/"

// Group is a named run of variables for one renderer section.
type Group struct {
	Name      string
	Variables []ResolvedVariable
}

// GroupByPath groups variables by the first depth segments of their parent path.
// A depth of zero or less uses the whole parent path. Variables without a separator
// belong to the root group "". Groups appear in order of their first member and keep
// member order.
func GroupByPath(vars []ResolvedVariable, depth int) []Group {
	return groupBy(vars, func(v ResolvedVariable) string {
		return PathPrefix(v.Name, depth)
	})
}

// GroupByCollection groups variables by owning collection name.
func GroupByCollection(vars []ResolvedVariable) []Group {
	return groupBy(vars, func(v ResolvedVariable) string { return v.Collection })
}

// PathPrefix returns the group key of a variable name for the given depth.
func PathPrefix(name string, depth int) string {
	segments := strings.Split(name, PathSeparator)
	parent := segments[:len(segments)-1]
	if depth > 0 && len(parent) > depth {
		parent = parent[:depth]
	}
	for i := range parent {
		parent[i] = strings.TrimSpace(parent[i])
	}
	return strings.Join(parent, PathSeparator)
}

func groupBy(vars []ResolvedVariable, key func(ResolvedVariable) string) []Group {
	var groups []Group
	pos := make(map[string]int)

	for _, v := range vars {
		k := key(v)
		i, ok := pos[k]
		if !ok {
			i = len(groups)
			pos[k] = i
			groups = append(groups, Group{Name: k})
		}
		groups[i].Variables = append(groups[i].Variables, v)
	}
	return groups
}
