package domain

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ResourceLocation is the exact position of a parking space. Immutable
// input; the engine never mutates it and only the disclosure layer decides
// how much of it a viewer gets to see.
type ResourceLocation struct {
	ExactLat     float64 `json:"exact_lat"`
	ExactLng     float64 `json:"exact_lng"`
	ExactAddress string  `json:"exact_address"`
	Borough      string  `json:"borough"`
	Neighborhood string  `json:"neighborhood,omitempty"`
}

// Exact returns the precise coordinate.
func (l ResourceLocation) Exact() Coordinate {
	return Coordinate{Lat: l.ExactLat, Lng: l.ExactLng}
}
