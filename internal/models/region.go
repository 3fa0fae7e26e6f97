package models

// Region is a named map viewport: a center coordinate plus a zoom level.
// The catalog is fixed at build time and never mutated; the name doubles as
// the selection key.
type Region struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      int     `json:"zoom"`
}

// RegionCatalog lists the selectable viewports. The first entry is the
// default selection for a new session.
var RegionCatalog = []Region{
	{Name: "World", Latitude: 20.0, Longitude: 0.0, Zoom: 2},
	{Name: "California", Latitude: 36.7, Longitude: -119.7, Zoom: 6},
	{Name: "Alaska", Latitude: 63.0, Longitude: -150.0, Zoom: 4},
	{Name: "Japan", Latitude: 36.2, Longitude: 138.3, Zoom: 5},
	{Name: "Indonesia", Latitude: -2.5, Longitude: 118.0, Zoom: 4},
	{Name: "Chile", Latitude: -33.5, Longitude: -70.7, Zoom: 4},
	{Name: "Mediterranean", Latitude: 38.0, Longitude: 15.0, Zoom: 5},
}

// DefaultRegion returns the catalog's first entry.
func DefaultRegion() Region {
	return RegionCatalog[0]
}

// LookupRegion returns the catalog entry with the given name. Unknown names
// fall back to the first entry; the dropdown is built from the catalog, so
// this path is defensive rather than expected.
func LookupRegion(name string) Region {
	for _, r := range RegionCatalog {
		if r.Name == name {
			return r
		}
	}
	return DefaultRegion()
}
