package sync

import "context"

// Coordinate is a latitude/longitude pair.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves a free-text address to a coordinate. Implementations are
// external to the core. Returning ok=false (or an error) means "not yet
// located" - the write path never treats it as a failure.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (coord Coordinate, ok bool, err error)
}

// Locator reports the device's current coordinate, when one is known.
// Absence defaults knock coordinates to (0, 0).
type Locator interface {
	Current() (Coordinate, bool)
}
