package scheduler

import "errors"

// maxAugmentingPaths caps the augmenting-path loop. The loop is naturally
// bounded by the total flow value (at most 7 sessions per student), so the
// cap only trips on malformed capacity data; failing loudly beats hanging.
const maxAugmentingPaths = 100000

// ErrFlowDiverged is returned when the augmenting-path loop exceeds its
// iteration cap, which indicates corrupt capacities rather than a full
// schedule.
var ErrFlowDiverged = errors.New("scheduler: max-flow did not converge")

// network is a residual flow network over dense node indices.
type network struct {
	cap [][]int
	adj [][]int
}

func newNetwork(size int) *network {
	nw := &network{
		cap: make([][]int, size),
		adj: make([][]int, size),
	}
	for i := range nw.cap {
		nw.cap[i] = make([]int, size)
	}
	return nw
}

// addEdge sets capacity c on u→v and registers both directions in the
// adjacency lists so residual edges are reachable.
func (nw *network) addEdge(u, v, c int) {
	if !contains(nw.adj[u], v) {
		nw.adj[u] = append(nw.adj[u], v)
	}
	if !contains(nw.adj[v], u) {
		nw.adj[v] = append(nw.adj[v], u)
	}
	nw.cap[u][v] = c
}

func contains(list []int, x int) bool {
	for _, v := range list {
		if v == x {
			return true
		}
	}
	return false
}

// maxFlow runs the shortest-augmenting-path (Edmonds–Karp) algorithm from s
// to t. Adjacency-list order decides which of several maximum flows is found;
// the value itself does not depend on it.
func (nw *network) maxFlow(s, t int) (int, error) {
	n := len(nw.cap)
	parent := make([]int, n)
	flow := 0

	for round := 0; ; round++ {
		if round >= maxAugmentingPaths {
			return flow, ErrFlowDiverged
		}

		for i := range parent {
			parent[i] = -1
		}
		parent[s] = s

		queue := []int{s}
		for len(queue) > 0 && parent[t] == -1 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range nw.adj[u] {
				if parent[v] == -1 && nw.cap[u][v] > 0 {
					parent[v] = u
					queue = append(queue, v)
				}
			}
		}
		if parent[t] == -1 {
			return flow, nil
		}

		pathFlow := nw.cap[parent[t]][t]
		for v := t; v != s; v = parent[v] {
			if c := nw.cap[parent[v]][v]; c < pathFlow {
				pathFlow = c
			}
		}
		for v := t; v != s; v = parent[v] {
			u := parent[v]
			nw.cap[u][v] -= pathFlow
			nw.cap[v][u] += pathFlow
		}
		flow += pathFlow
	}
}
