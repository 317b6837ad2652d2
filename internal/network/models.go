package network

// NodeID identifies an account in the trust network.
type NodeID uint64

// Edge is a single directed trust rating.
type Edge struct {
	From      NodeID  `json:"from" yaml:"from"`
	To        NodeID  `json:"to" yaml:"to"`
	Weight    float64 `json:"weight" yaml:"weight"`
	Timestamp int64   `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// NeighborSet holds the distinct nodes adjacent to a node, split by direction.
type NeighborSet struct {
	Inputs  map[NodeID]struct{}
	Outputs map[NodeID]struct{}
}

// Union returns the distinct neighbors regardless of edge direction.
func (ns NeighborSet) Union() map[NodeID]struct{} {
	all := make(map[NodeID]struct{}, len(ns.Inputs)+len(ns.Outputs))
	for n := range ns.Inputs {
		all[n] = struct{}{}
	}
	for n := range ns.Outputs {
		all[n] = struct{}{}
	}
	return all
}

// Distance is a node reached by a breadth-first traversal and its hop count.
type Distance struct {
	Node NodeID `json:"node" yaml:"node"`
	Hops int    `json:"hops" yaml:"hops"`
}
