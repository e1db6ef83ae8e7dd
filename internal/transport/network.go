package transport

import (
	"context"
	"fmt"
)

// Repository is the read side the network is built from.
type Repository interface {
	ListStops(ctx context.Context) ([]Stop, error)
	ListRoutes(ctx context.Context) ([]Route, error)
}

// Network is an in-memory snapshot of stops and the route graph between them.
type Network struct {
	stops  map[int]Stop
	routes []Route
	graph  *Graph
}

// Plan is a shortest path between two stops.
type Plan struct {
	Stops      []Stop  `json:"stops"`
	DistanceKm float64 `json:"distance_km"`
}

// LoadNetwork reads every stop and route and links consecutive route stops in
// both directions, weighted by haversine distance.
func LoadNetwork(ctx context.Context, repo Repository) (*Network, error) {
	stops, err := repo.ListStops(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stops: %w", err)
	}
	routes, err := repo.ListRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return NewNetwork(stops, routes), nil
}

// NewNetwork builds a network from already loaded rows. Route stops that are
// not in stops are skipped.
func NewNetwork(stops []Stop, routes []Route) *Network {
	n := &Network{
		stops:  make(map[int]Stop, len(stops)),
		routes: routes,
		graph:  NewGraph(),
	}
	for _, s := range stops {
		n.stops[s.ID] = s
		n.graph.AddNode(s.ID)
	}
	for _, r := range routes {
		for i := 0; i+1 < len(r.StopIDs); i++ {
			from, okFrom := n.stops[r.StopIDs[i]]
			to, okTo := n.stops[r.StopIDs[i+1]]
			if !okFrom || !okTo {
				continue
			}
			d := Distance(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
			n.graph.AddEdge(from.ID, to.ID, d)
			n.graph.AddEdge(to.ID, from.ID, d)
		}
	}
	return n
}

func (n *Network) Graph() *Graph {
	return n.graph
}

// Stop looks up a stop by ID.
func (n *Network) Stop(id int) (Stop, bool) {
	s, ok := n.stops[id]
	return s, ok
}

// ShortestPath plans between two stop IDs. Unknown stops yield ErrNotFound;
// an unreachable destination yields an empty plan.
func (n *Network) ShortestPath(from, to int) (Plan, error) {
	if _, ok := n.stops[from]; !ok {
		return Plan{}, fmt.Errorf("stop %d: %w", from, ErrNotFound)
	}
	if _, ok := n.stops[to]; !ok {
		return Plan{}, fmt.Errorf("stop %d: %w", to, ErrNotFound)
	}
	ids, km := ShortestPath(n.graph, from, to)
	plan := Plan{DistanceKm: km}
	for _, id := range ids {
		plan.Stops = append(plan.Stops, n.stops[id])
	}
	return plan, nil
}

// Reachable returns the stops within maxDepth hops of start.
func (n *Network) Reachable(start, maxDepth int) ([]Stop, error) {
	if _, ok := n.stops[start]; !ok {
		return nil, fmt.Errorf("stop %d: %w", start, ErrNotFound)
	}
	var out []Stop
	for _, id := range Reachable(n.graph, start, maxDepth) {
		out = append(out, n.stops[id])
	}
	return out, nil
}

// NearbyStops returns stops within radiusKm of the point, ordered by ID.
func (n *Network) NearbyStops(lat, lon, radiusKm float64) []Stop {
	var out []Stop
	for _, id := range n.graph.Nodes() {
		s := n.stops[id]
		if Distance(lat, lon, s.Latitude, s.Longitude) <= radiusKm {
			out = append(out, s)
		}
	}
	return out
}

// RoutesThrough returns the routes serving stopID, ordered by route ID.
func (n *Network) RoutesThrough(stopID int) []Route {
	byID := make(map[int]Route, len(n.routes))
	routeStops := make(map[int][]int, len(n.routes))
	for _, r := range n.routes {
		byID[r.ID] = r
		routeStops[r.ID] = r.StopIDs
	}
	var out []Route
	for _, id := range RoutesThroughStop(routeStops, stopID) {
		out = append(out, byID[id])
	}
	return out
}
