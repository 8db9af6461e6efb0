package domain

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// DisclosureTier is the level of location detail a viewer is entitled to.
// Derived fresh per request from the viewer's relationship to the booking,
// never persisted.
type DisclosureTier string

const (
	TierOwner          DisclosureTier = "owner"
	TierCheckedInGuest DisclosureTier = "checked_in_guest"
	TierOther          DisclosureTier = "other"
)

// DefaultGridSize is the coordinate snapping lattice in degrees, roughly
// one city block.
const DefaultGridSize = 0.002

// Disclosure is what a viewer may see of a resource's location.
type Disclosure struct {
	Address    string     `json:"address"`
	Coordinate Coordinate `json:"coordinate"`
}

// DisclosureEngine gates location detail by viewer tier. Owners and
// checked-in guests see everything; everyone else sees a grid-snapped
// coordinate and a low-information address. Numeric street addresses leak
// exact position even without coordinates, so they are suppressed; a bare
// street name is safe to reveal for orientation.
type DisclosureEngine struct {
	// GridSize is the snapping lattice in degrees for restricted viewers.
	GridSize float64
	// Neighborhoods are names matched against the address when the
	// location record carries no explicit neighborhood.
	Neighborhoods []string
}

// DefaultNeighborhoods seeds the substring matcher for NYC deployments.
// Street-name lookalikes (Flatbush, Myrtle) are deliberately absent so an
// avenue name never masquerades as a neighborhood.
var DefaultNeighborhoods = []string{
	"Williamsburg",
	"Park Slope",
	"Greenpoint",
	"Bushwick",
	"Red Hook",
	"DUMBO",
	"Astoria",
	"Long Island City",
	"Sunnyside",
	"Harlem",
	"SoHo",
	"TriBeCa",
	"Chelsea",
	"Riverdale",
}

// NewDisclosureEngine returns an engine with the default grid and
// neighborhood list.
func NewDisclosureEngine() DisclosureEngine {
	return DisclosureEngine{
		GridSize:      DefaultGridSize,
		Neighborhoods: DefaultNeighborhoods,
	}
}

// Disclose returns the address string and coordinate the given tier may
// see. Pure; makes no network calls.
func (e DisclosureEngine) Disclose(tier DisclosureTier, loc ResourceLocation) Disclosure {
	if tier == TierOwner || tier == TierCheckedInGuest {
		return Disclosure{Address: loc.ExactAddress, Coordinate: loc.Exact()}
	}

	return Disclosure{
		Address:    e.restrictedAddress(loc),
		Coordinate: e.Snap(loc.Exact()),
	}
}

// Snap rounds a coordinate onto the engine's grid so restricted viewers
// see an approximate intersection, never the exact spot.
func (e DisclosureEngine) Snap(c Coordinate) Coordinate {
	grid := e.GridSize
	if grid <= 0 {
		grid = DefaultGridSize
	}
	return Coordinate{
		Lat: math.Round(c.Lat/grid) * grid,
		Lng: math.Round(c.Lng/grid) * grid,
	}
}

func (e DisclosureEngine) restrictedAddress(loc ResourceLocation) string {
	if loc.Neighborhood != "" {
		return fmt.Sprintf("%s, %s", loc.Neighborhood, loc.Borough)
	}

	if hood := e.matchNeighborhood(loc.ExactAddress); hood != "" {
		return fmt.Sprintf("%s, %s", hood, loc.Borough)
	}

	leading := leadingToken(loc.ExactAddress)
	if containsDigit(leading) {
		return fmt.Sprintf("%s • General Area", loc.Borough)
	}
	if leading != "" {
		return fmt.Sprintf("Near %s, %s", leading, loc.Borough)
	}
	return fmt.Sprintf("%s • General Area", loc.Borough)
}

func (e DisclosureEngine) matchNeighborhood(address string) string {
	lower := strings.ToLower(address)
	for _, hood := range e.Neighborhoods {
		if strings.Contains(lower, strings.ToLower(hood)) {
			return hood
		}
	}
	return ""
}

func leadingToken(address string) string {
	token, _, _ := strings.Cut(address, ",")
	return strings.TrimSpace(token)
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
