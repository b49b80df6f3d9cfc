package models

type CoordinatePoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds is the lon/lat bounding box of the mapped parcels.
type Bounds struct {
	SouthWest CoordinatePoint `json:"southWest"`
	NorthEast CoordinatePoint `json:"northEast"`
}

// MapView is the initial centre, extent and zoom of the parcel map.
type MapView struct {
	Center CoordinatePoint `json:"center"`
	Bounds Bounds          `json:"bounds"`
	Zoom   int             `json:"zoom"`
}

// TileLayer is a base map the dashboard can switch to. Tiles are referenced
// by URL and never proxied.
type TileLayer struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

// DefaultTileLayers lists the street map first; it is the initial base layer.
func DefaultTileLayers() []TileLayer {
	return []TileLayer{
		{
			Name:        "OpenStreetMap",
			URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: "&copy; OpenStreetMap contributors",
		},
		{
			Name:        "Esri Satellite",
			URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
			Attribution: "Tiles &copy; Esri",
		},
	}
}
