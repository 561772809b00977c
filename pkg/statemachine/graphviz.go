package statemachine

import (
	"strings"

	"github.com/enetx/g"
)

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// dotID escapes a label for use inside a quoted DOT identifier.
func dotID[L ~string](l L) g.String {
	return g.String(dotEscaper.Replace(string(l)))
}

// ToDOT renders the machine as a Graphviz digraph. The current state is drawn
// as a filled double circle, states without outgoing transitions are grey,
// and transitions sharing both ends are merged into one edge whose label
// lists the events in table order.
func (m *Machine[S, E]) ToDOT() string {
	current := m.Current()

	type edge struct{ from, to S }
	var order []edge
	labels := make(map[edge]g.Slice[g.String])
	outgoing := g.NewSet[S]()

	for _, tr := range m.ordered {
		k := edge{from: tr.From, to: tr.To}
		if _, ok := labels[k]; !ok {
			order = append(order, k)
		}
		labels[k] = append(labels[k], dotID(tr.Event))
		outgoing.Insert(tr.From)
	}

	name := dotID(m.name)
	if name == "" {
		name = "machine"
	}

	b := g.NewBuilder()
	b.WriteString(g.Format("digraph \"{}\" ", name))
	b.WriteString("{\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=circle, fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")
	b.WriteString("  __start [shape=point];\n")
	b.WriteString(g.Format("  __start -> \"{}\";\n\n", dotID(m.initial)))

	for _, state := range m.States() {
		var attrs g.Slice[g.String]
		attrs.Push(g.Format("label=\"{}\"", dotID(state)))

		switch {
		case state == current:
			attrs.Push("style=filled", "fillcolor=\"#90ee90\"", "shape=doublecircle")
		case !outgoing.Contains(state):
			attrs.Push("style=filled", "fillcolor=\"#d3d3d3\"")
		}

		if n := m.ActionCount(state); n > 0 {
			attrs.Push(g.Format("tooltip=\"{} entry action(s)\"", n))
		}

		b.WriteString(g.Format("  \"{}\" [{}];\n", dotID(state), attrs.Join(", ")))
	}

	b.WriteByte('\n')

	for _, k := range order {
		b.WriteString(g.Format("  \"{}\" -> \"{}\" [label=\" {} \"];\n",
			dotID(k.from), dotID(k.to), labels[k].Join("\\n")))
	}

	b.WriteString("}\n")

	return string(b.String())
}
