package graph

import (
	"reflect"
	"strings"
)

// Path tracks the constructions in progress in a single resolution,
// outermost first. Each construction is identified by a comparable node;
// a node entering the path a second time closes a dependency cycle. The
// type of each entry is kept for reporting.
type Path struct {
	entries []entry
}

type entry struct {
	node any
	typ  reflect.Type
}

// Enter pushes node, built as type t, onto the path. If node is already on
// the path, the path is left unchanged and the types from the first
// occurrence of node are returned.
func (p *Path) Enter(node any, t reflect.Type) (cycle []reflect.Type, ok bool) {
	for i, e := range p.entries {
		if e.node == node {
			cycle = make([]reflect.Type, 0, len(p.entries)-i)
			for _, c := range p.entries[i:] {
				cycle = append(cycle, c.typ)
			}
			return cycle, false
		}
	}

	p.entries = append(p.entries, entry{node: node, typ: t})
	return nil, true
}

// Leave pops the innermost construction.
func (p *Path) Leave() {
	if len(p.entries) > 0 {
		p.entries = p.entries[:len(p.entries)-1]
	}
}

// Len returns the current depth.
func (p *Path) Len() int {
	return len(p.entries)
}

// Format renders a cycle as a chain of types leading back to its start.
func Format(cycle []reflect.Type) string {
	if len(cycle) == 0 {
		return ""
	}

	var b strings.Builder
	for _, node := range cycle {
		b.WriteString("    ")
		b.WriteString(node.String())
		b.WriteString("\n      ↓\n")
	}
	b.WriteString("    ")
	b.WriteString(cycle[0].String())
	b.WriteString(" (cycle)\n")

	return b.String()
}
