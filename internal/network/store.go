package network

import "sort"

// Graph is an adjacency store of outgoing edges with a reverse index of
// incoming edges. Every endpoint of every edge is a key, sinks included.
type Graph struct {
	out   map[NodeID][]Edge
	in    map[NodeID][]Edge
	nodes []NodeID // ascending
	edges int
}

// Build constructs a Graph from a list of edges. Repeated edges are kept.
func Build(edges []Edge) *Graph {
	g := &Graph{
		out: make(map[NodeID][]Edge),
		in:  make(map[NodeID][]Edge),
	}
	for _, e := range edges {
		g.addEdge(e)
	}
	g.index()
	return g
}

func (g *Graph) ensure(id NodeID) {
	if _, ok := g.out[id]; !ok {
		g.out[id] = nil
	}
}

func (g *Graph) addEdge(e Edge) {
	g.ensure(e.From)
	g.ensure(e.To)
	g.out[e.From] = append(g.out[e.From], e)
	g.in[e.To] = append(g.in[e.To], e)
	g.edges++
}

// index refreshes the sorted node list after construction.
func (g *Graph) index() {
	g.nodes = make([]NodeID, 0, len(g.out))
	for id := range g.out {
		g.nodes = append(g.nodes, id)
	}
	sort.Slice(g.nodes, func(i, j int) bool { return g.nodes[i] < g.nodes[j] })
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of edges, repeats included.
func (g *Graph) EdgeCount() int { return g.edges }

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id NodeID) bool {
	_, ok := g.out[id]
	return ok
}

// Nodes returns all node IDs in ascending order. The slice is a copy.
func (g *Graph) Nodes() []NodeID {
	return append([]NodeID(nil), g.nodes...)
}

// Outgoing returns the edges leaving id in insertion order.
func (g *Graph) Outgoing(id NodeID) []Edge {
	return append([]Edge(nil), g.out[id]...)
}

// Incoming returns the edges arriving at id in insertion order.
func (g *Graph) Incoming(id NodeID) []Edge {
	return append([]Edge(nil), g.in[id]...)
}

// Edges returns every edge grouped by ascending source node.
func (g *Graph) Edges() []Edge {
	all := make([]Edge, 0, g.edges)
	for _, id := range g.nodes {
		all = append(all, g.out[id]...)
	}
	return all
}

// Neighbors returns the distinct input and output neighbors of id.
// An unknown node yields empty sets.
func (g *Graph) Neighbors(id NodeID) NeighborSet {
	ns := NeighborSet{
		Inputs:  make(map[NodeID]struct{}),
		Outputs: make(map[NodeID]struct{}),
	}
	for _, e := range g.out[id] {
		ns.Outputs[e.To] = struct{}{}
	}
	for _, e := range g.in[id] {
		ns.Inputs[e.From] = struct{}{}
	}
	return ns
}

// Induced returns an independent subgraph holding the given nodes and the
// edges of g whose endpoints both lie in that set. Nodes unknown to g are
// ignored.
func (g *Graph) Induced(nodes []NodeID) *Graph {
	member := make(map[NodeID]bool, len(nodes))
	for _, id := range nodes {
		if g.Has(id) {
			member[id] = true
		}
	}

	sub := &Graph{
		out: make(map[NodeID][]Edge, len(member)),
		in:  make(map[NodeID][]Edge),
	}
	for id := range member {
		sub.ensure(id)
	}
	for _, id := range g.nodes {
		if !member[id] {
			continue
		}
		for _, e := range g.out[id] {
			if member[e.To] {
				sub.addEdge(e)
			}
		}
	}
	sub.index()
	return sub
}
