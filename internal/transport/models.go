// Package transport models the urban transit network: stops, routes and trips,
// and the graph algorithms used to plan over them.
package transport

import "errors"

// ErrNotFound is returned when a stop, route or trip does not exist.
var ErrNotFound = errors.New("not found")

// Transport types accepted by the routes table.
const (
	TypeBus   = "bus"
	TypeMetro = "metro"
	TypeTrain = "train"
	TypeTram  = "tram"
)

// Stop is a boarding point with WGS84 coordinates.
type Stop struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Route is an ordered list of stops served by one transport type.
type Route struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	TransportType string `json:"transport_type"`
	StopIDs       []int  `json:"stop_ids"`
}

// Trip is one scheduled run of a route. Times are "HH:MM" strings and
// compare lexically.
type Trip struct {
	ID           int    `json:"id"`
	RouteID      int    `json:"route_id"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	StopSequence []int  `json:"stop_sequence"`
}
