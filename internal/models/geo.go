package models

import "time"

// Location types used by the map view.
const (
	LocationOrigem  = "origem"
	LocationDestino = "destino"
	LocationParada  = "parada"
)

// Location is a geocoded point associated with a contract.
type Location struct {
	ID         string    `json:"id"`
	ContratoID string    `json:"contrato_id,omitempty"`
	Address    string    `json:"address"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"created_at"`
}

// Point is a bare coordinate pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeocodeResult maps an address to coordinates, or back.
type GeocodeResult struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Precision string  `json:"precision,omitempty"`
}

// DistanceResult is the computed distance between two points.
type DistanceResult struct {
	DistanceKm     float64 `json:"distance_km"`
	DistanceMeters float64 `json:"distance_meters"`
}

// LocationSearch filters a location listing.
type LocationSearch struct {
	Type      string
	Latitude  *float64
	Longitude *float64
	RadiusKm  *float64
}
