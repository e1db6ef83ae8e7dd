package transport

import (
	"container/heap"
	"math"
	"sort"
)

const earthRadiusKm = 6371.0

// ShortestPath runs Dijkstra from start to end and returns the node sequence
// and its total weight. The path is empty when either node is unknown or end
// is unreachable.
func ShortestPath(g *Graph, start, end int) ([]int, float64) {
	if g == nil || !g.HasNode(start) || !g.HasNode(end) {
		return nil, 0
	}

	dist := map[int]float64{start: 0}
	prev := make(map[int]int)
	visited := make(map[int]bool)
	pq := &queue{{node: start}}

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(item)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true

		if cur.node == end {
			path := []int{end}
			for n := end; n != start; {
				n = prev[n]
				path = append(path, n)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, cur.dist
		}

		for _, e := range g.Edges(cur.node) {
			next := cur.dist + e.Weight
			if d, ok := dist[e.Target]; !ok || next < d {
				dist[e.Target] = next
				prev[e.Target] = cur.node
				heap.Push(pq, item{node: e.Target, dist: next})
			}
		}
	}
	return nil, 0
}

// Reachable lists nodes within maxDepth hops of start in BFS order, start first.
func Reachable(g *Graph, start, maxDepth int) []int {
	if g == nil || !g.HasNode(start) {
		return nil
	}
	type hop struct{ node, depth int }

	seen := map[int]bool{start: true}
	pending := []hop{{start, 0}}
	var out []int
	for len(pending) > 0 {
		cur := pending[0]
		pending = pending[1:]
		out = append(out, cur.node)
		if cur.depth >= maxDepth {
			continue
		}
		for _, e := range g.Edges(cur.node) {
			if !seen[e.Target] {
				seen[e.Target] = true
				pending = append(pending, hop{e.Target, cur.depth + 1})
			}
		}
	}
	return out
}

// RoutesThroughStop returns the IDs of routes whose stop list contains stopID,
// ascending.
func RoutesThroughStop(routeStops map[int][]int, stopID int) []int {
	var out []int
	for routeID, stops := range routeStops {
		for _, s := range stops {
			if s == stopID {
				out = append(out, routeID)
				break
			}
		}
	}
	sort.Ints(out)
	return out
}

// Distance is the haversine great-circle distance in kilometres.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

type item struct {
	node int
	dist float64
}

// queue is a min-heap on dist, ties broken by node ID.
type queue []item

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].dist == q[j].dist {
		return q[i].node < q[j].node
	}
	return q[i].dist < q[j].dist
}
func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)   { *q = append(*q, x.(item)) }
func (q *queue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
