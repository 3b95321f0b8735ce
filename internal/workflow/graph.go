// Package workflow executes small directed graphs of applet nodes against a
// single protocol metrics snapshot, gated on protocol health.
package workflow

import "fmt"

// AppletType identifies the synthetic action a node performs.
type AppletType string

const (
	AppletPriceMonitor AppletType = "price_monitor"
	AppletReserveCheck AppletType = "reserve_check"
	AppletMintAction   AppletType = "mint_action"
	AppletRedeemAction AppletType = "redeem_action"
	AppletNotifier     AppletType = "notifier"
)

// Node is a single applet node in a workflow graph.
type Node struct {
	ID        string     `json:"id"`
	Type      AppletType `json:"appletType"`
	Condition Condition  `json:"condition"`
}

// Edge is a directed connection between two nodes.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a workflow definition. Assumed acyclic; cycles are tolerated by
// the executor's visited set but reported on the run result.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Validate checks structural integrity: non-empty node ids, no duplicate ids,
// edges referencing existing nodes.
func (g *Graph) Validate() error {
	if len(g.Nodes) == 0 {
		return fmt.Errorf("graph has no nodes")
	}

	seen := make(map[string]struct{}, len(g.Nodes))
	for _, node := range g.Nodes {
		if node.ID == "" {
			return fmt.Errorf("node with empty id")
		}
		if _, dup := seen[node.ID]; dup {
			return fmt.Errorf("duplicate node id %q", node.ID)
		}
		seen[node.ID] = struct{}{}
	}

	for _, edge := range g.Edges {
		if _, ok := seen[edge.From]; !ok {
			return fmt.Errorf("edge references unknown node %q", edge.From)
		}
		if _, ok := seen[edge.To]; !ok {
			return fmt.Errorf("edge references unknown node %q", edge.To)
		}
	}

	return nil
}

// EntryNodes returns the nodes with no incoming edge, in declaration order.
// When every node has an incoming edge the first declared node is the sole
// entry point.
func (g *Graph) EntryNodes() []Node {
	hasIncoming := make(map[string]bool, len(g.Nodes))
	for _, edge := range g.Edges {
		hasIncoming[edge.To] = true
	}

	entries := make([]Node, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		if !hasIncoming[node.ID] {
			entries = append(entries, node)
		}
	}

	if len(entries) == 0 && len(g.Nodes) > 0 {
		entries = append(entries, g.Nodes[0])
	}

	return entries
}

// Outgoing returns the ids of nodes reachable from id over one edge, in edge
// declaration order.
func (g *Graph) Outgoing(id string) []string {
	out := make([]string, 0, 4)
	for _, edge := range g.Edges {
		if edge.From == id {
			out = append(out, edge.To)
		}
	}

	return out
}

// NodeByID returns the node with the given id.
func (g *Graph) NodeByID(id string) (Node, bool) {
	for _, node := range g.Nodes {
		if node.ID == id {
			return node, true
		}
	}

	return Node{}, false
}

// HasCycle reports whether the graph contains a directed cycle.
// Cycles are not rejected, only surfaced as a diagnostic on the run.
func (g *Graph) HasCycle() bool {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current path
		black = 2 // done
	)

	color := make(map[string]int, len(g.Nodes))

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		for _, next := range g.Outgoing(id) {
			switch color[next] {
			case gray:
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for _, node := range g.Nodes {
		if color[node.ID] == white {
			if visit(node.ID) {
				return true
			}
		}
	}

	return false
}
