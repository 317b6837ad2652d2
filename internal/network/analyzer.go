package network

// Degrees returns the indegree and outdegree of every node. Repeated edges
// count once each.
func Degrees(g *Graph) (in, out map[NodeID]int) {
	in = make(map[NodeID]int, g.Len())
	out = make(map[NodeID]int, g.Len())
	for _, id := range g.nodes {
		in[id] = len(g.in[id])
		out[id] = len(g.out[id])
	}
	return in, out
}

// ClusteringCoefficient returns the fraction of ordered neighbor pairs of
// node that are joined by a directed edge. Neighbors are taken in both
// directions, so a self-loop puts node in its own neighbor set. Every
// edge from a neighbor into the set counts, self-loops included.
func ClusteringCoefficient(g *Graph, node NodeID) float64 {
	nb := g.Neighbors(node).Union()
	k := len(nb)
	if k < 2 {
		return 0.0
	}

	links := 0
	for m := range nb {
		for _, e := range g.out[m] {
			if _, ok := nb[e.To]; ok {
				links++
			}
		}
	}

	cc := float64(links) / float64(k*(k-1))
	// Repeated edges between the same pair can push the ratio past one.
	if cc > 1.0 {
		cc = 1.0
	}
	return cc
}

// TrustScore returns the mean weight of the edges arriving at node, or 0
// when there are none.
func TrustScore(g *Graph, node NodeID) float64 {
	incoming := g.in[node]
	if len(incoming) == 0 {
		return 0.0
	}
	var sum float64
	for _, e := range incoming {
		sum += e.Weight
	}
	return sum / float64(len(incoming))
}

// Components partitions g into its weakly-connected components. Roots are
// chosen in ascending node order, so the result is reproducible. Each
// component is an independent Graph.
func Components(g *Graph) []*Graph {
	visited := make(map[NodeID]bool, g.Len())
	var comps []*Graph

	for _, root := range g.nodes {
		if visited[root] {
			continue
		}
		members := weakBFS(g, root, visited)
		comps = append(comps, g.Induced(members))
	}
	return comps
}

// weakBFS walks edges in both directions from root, marking nodes visited
// at enqueue time, and returns the nodes in visit order.
func weakBFS(g *Graph, root NodeID, visited map[NodeID]bool) []NodeID {
	queue := []NodeID{root}
	visited[root] = true
	var members []NodeID

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		members = append(members, node)

		for _, e := range g.out[node] {
			if !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
		for _, e := range g.in[node] {
			if !visited[e.From] {
				visited[e.From] = true
				queue = append(queue, e.From)
			}
		}
	}
	return members
}

// BFSDistances follows outgoing edges from start and returns every reached
// node with its hop count, in visit order. start is reported at hop 0.
func BFSDistances(g *Graph, start NodeID) []Distance {
	if !g.Has(start) {
		return nil
	}
	visited := map[NodeID]bool{start: true}
	queue := []Distance{{Node: start, Hops: 0}}
	var dists []Distance

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		dists = append(dists, cur)

		for _, e := range g.out[cur.Node] {
			if !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, Distance{Node: e.To, Hops: cur.Hops + 1})
			}
		}
	}
	return dists
}

// Reachable returns the nodes reachable from start along outgoing edges,
// in depth-first visit order, start first.
func Reachable(g *Graph, start NodeID) []NodeID {
	if !g.Has(start) {
		return nil
	}
	visited := make(map[NodeID]bool)
	stack := []NodeID{start}
	var order []NodeID

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[node] {
			continue
		}
		visited[node] = true
		order = append(order, node)

		edges := g.out[node]
		// Push in reverse so the first edge is explored first.
		for i := len(edges) - 1; i >= 0; i-- {
			if !visited[edges[i].To] {
				stack = append(stack, edges[i].To)
			}
		}
	}
	return order
}
