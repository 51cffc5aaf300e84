package graph

import (
	"sort"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// GraphModel wraps a Graph with the adjacency views the engine needs to
// schedule parallel, level-by-level execution: which nodes have no
// dependencies at all (start nodes), and which nodes become eligible once a
// given level finishes.
type GraphModel struct {
	g *Graph

	incoming map[string][]types.Edge
	outgoing map[string][]types.Edge
}

// NewModel builds a GraphModel over nodes and edges. It does not itself
// validate acyclicity; call Levels to discover cycles.
func NewModel(nodes []types.Node, edges []types.Edge) *GraphModel {
	m := &GraphModel{
		g:        New(nodes, edges),
		incoming: make(map[string][]types.Edge, len(nodes)),
		outgoing: make(map[string][]types.Edge, len(nodes)),
	}
	for i := range edges {
		e := edges[i]
		m.incoming[e.Target] = append(m.incoming[e.Target], e)
		m.outgoing[e.Source] = append(m.outgoing[e.Source], e)
	}
	return m
}

// Graph returns the underlying Graph for direct node/edge lookups.
func (m *GraphModel) Graph() *Graph {
	return m.g
}

// IncomingEdges returns all edges whose target is nodeID, in no particular
// order beyond insertion order.
func (m *GraphModel) IncomingEdges(nodeID string) []types.Edge {
	return m.incoming[nodeID]
}

// OutgoingEdges returns all edges whose source is nodeID.
func (m *GraphModel) OutgoingEdges(nodeID string) []types.Edge {
	return m.outgoing[nodeID]
}

// StartNodes returns, in deterministic (sorted) order, every node with no
// incoming edges. These are the nodes eligible to run in level 0.
func (m *GraphModel) StartNodes() []string {
	var starts []string
	for i := range m.g.nodes {
		id := m.g.nodes[i].ID
		if len(m.incoming[id]) == 0 {
			starts = append(starts, id)
		}
	}
	sort.Strings(starts)
	return starts
}

// Levels partitions every node into execution levels by longest path from a
// start node, using Kahn's algorithm so that a cycle is reported instead of
// silently dropping nodes. Level N contains only nodes whose every
// dependency lies in a level < N, so all members of a level can run
// concurrently: this is the static upper bound on parallelism. At runtime
// the engine still filters each level down to nodes whose incoming edges are
// actually active (conditional routing and merge gating can remove members
// of a level without changing its shape).
func (m *GraphModel) Levels() ([][]string, error) {
	if err := m.g.DetectCycles(); err != nil {
		return nil, err
	}

	numNodes := len(m.g.nodes)
	if numNodes == 0 {
		return [][]string{}, nil
	}

	inDegree := make(map[string]int, numNodes)
	for i := range m.g.nodes {
		inDegree[m.g.nodes[i].ID] = len(m.incoming[m.g.nodes[i].ID])
	}

	var levels [][]string
	remaining := numNodes
	frontier := m.StartNodes()

	for len(frontier) > 0 {
		sort.Strings(frontier)
		levels = append(levels, frontier)
		remaining -= len(frontier)

		var next []string
		seen := make(map[string]bool)
		for _, id := range frontier {
			for _, e := range m.outgoing[id] {
				inDegree[e.Target]--
				if inDegree[e.Target] == 0 && !seen[e.Target] {
					seen[e.Target] = true
					next = append(next, e.Target)
				}
			}
		}
		frontier = next
	}

	if remaining != 0 {
		// DetectCycles already checked this; defensive only.
		return nil, ErrCycleDetected
	}

	return levels, nil
}
