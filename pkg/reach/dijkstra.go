package reach

import (
	"errors"
	"math"

	"isochrone_mapper/pkg/graph"
)

// ErrEmptyGraph is returned when the graph has no nodes to search.
var ErrEmptyGraph = errors.New("graph has no nodes")

// MinHeap is a concrete-typed min-heap for the Dijkstra priority queue.
// Avoids interface boxing overhead of container/heap.
type MinHeap struct {
	items []PQItem
}

// PQItem is a priority queue entry.
type PQItem struct {
	Node uint32
	Dist uint32
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(node, dist uint32) {
	h.items = append(h.items, PQItem{node, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) PeekDist() uint32 {
	if len(h.items) == 0 {
		return math.MaxUint32
	}
	return h.items[0].Dist
}

func (h *MinHeap) Reset() {
	h.items = h.items[:0]
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].Dist >= h.items[parent].Dist {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].Dist < h.items[smallest].Dist {
			smallest = left
		}
		if right < n && h.items[right].Dist < h.items[smallest].Dist {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// Result holds the reachable node set of one cutoff search: every node
// whose shortest travel time from the source is within the cutoff, with
// Node[i] settled at TimeMs[i]. The source is always present at time 0.
type Result struct {
	Source uint32
	Node   []uint32
	TimeMs []uint32
}

// Within returns the nodes settled at or below the given cutoff. Because
// nodes are recorded in settle order, the result for a smaller cutoff is
// always a prefix of the result for a larger one.
func (r *Result) Within(cutoffMs uint32) []uint32 {
	n := len(r.TimeMs)
	for i, t := range r.TimeMs {
		if t > cutoffMs {
			n = i
			break
		}
	}
	return r.Node[:n:n]
}

// Reachable computes the time-bounded reachable set from source: a
// single-source Dijkstra that stops exploring once the frontier minimum
// exceeds the cutoff. All weights are non-negative by construction, so
// settle order is non-decreasing in travel time.
func Reachable(w graph.Weighted, source uint32, cutoffMs uint32) (*Result, error) {
	if w.NumNodes == 0 {
		return nil, ErrEmptyGraph
	}

	dist := make([]uint32, w.NumNodes)
	for i := range dist {
		dist[i] = math.MaxUint32
	}
	settled := make([]bool, w.NumNodes)

	res := &Result{Source: source}

	var pq MinHeap
	dist[source] = 0
	pq.Push(source, 0)

	for pq.Len() > 0 {
		// Early exit: everything still queued is beyond the cutoff.
		if pq.PeekDist() > cutoffMs {
			break
		}

		item := pq.Pop()
		u := item.Node
		d := item.Dist

		if d > dist[u] {
			continue // stale entry
		}
		if settled[u] {
			continue
		}
		settled[u] = true

		res.Node = append(res.Node, u)
		res.TimeMs = append(res.TimeMs, d)

		start, end := w.EdgesFrom(u)
		for e := start; e < end; e++ {
			v := w.Head[e]
			newDist := d + w.TravelMs[e]
			if newDist < dist[v] {
				dist[v] = newDist
				pq.Push(v, newDist)
			}
		}
	}

	return res, nil
}
