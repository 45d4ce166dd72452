package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sistema-laudos/laudos-go/internal/models"
)

// LocationsByContrato fetches every location tied to a contract.
func (c *Client) LocationsByContrato(ctx context.Context, contratoID string) ([]models.Location, error) {
	var locations []models.Location
	if err := c.get(ctx, "/geolocalizacao/"+contratoID, nil, &locations); err != nil {
		return nil, notFound(err, "Geolocalização não encontrada")
	}
	return locations, nil
}

// SearchLocations lists locations, optionally by type or proximity.
func (c *Client) SearchLocations(ctx context.Context, search models.LocationSearch) ([]models.Location, error) {
	v := url.Values{}
	if search.Type != "" {
		v.Set("type", search.Type)
	}
	if search.Latitude != nil {
		v.Set("latitude", strconv.FormatFloat(*search.Latitude, 'f', -1, 64))
	}
	if search.Longitude != nil {
		v.Set("longitude", strconv.FormatFloat(*search.Longitude, 'f', -1, 64))
	}
	if search.RadiusKm != nil {
		v.Set("radius", strconv.FormatFloat(*search.RadiusKm, 'f', -1, 64))
	}

	var locations []models.Location
	if err := c.get(ctx, "/geolocalizacao", v, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// CreateLocation registers a new location.
func (c *Client) CreateLocation(ctx context.Context, location models.Location) (*models.Location, error) {
	var created models.Location
	if err := c.post(ctx, "/geolocalizacao", location, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateLocation updates an existing location.
func (c *Client) UpdateLocation(ctx context.Context, id string, location models.Location) (*models.Location, error) {
	var updated models.Location
	if err := c.put(ctx, "/geolocalizacao/"+id, location, &updated); err != nil {
		return nil, notFound(err, "Localização não encontrada")
	}
	return &updated, nil
}

// DeleteLocation removes a location.
func (c *Client) DeleteLocation(ctx context.Context, id string) error {
	if err := c.del(ctx, "/geolocalizacao/"+id, nil); err != nil {
		return notFound(err, "Localização não encontrada")
	}
	return nil
}

// Geocode resolves a full address to coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (*models.GeocodeResult, error) {
	v := url.Values{}
	v.Set("address", address)

	var result models.GeocodeResult
	if err := c.get(ctx, "/geolocalizacao/geocode", v, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ReverseGeocode resolves coordinates to an address.
func (c *Client) ReverseGeocode(ctx context.Context, latitude, longitude float64) (*models.GeocodeResult, error) {
	v := url.Values{}
	v.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	v.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))

	var result models.GeocodeResult
	if err := c.get(ctx, "/geolocalizacao/reverse", v, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Distance computes the distance between two points.
func (c *Client) Distance(ctx context.Context, from, to models.Point) (*models.DistanceResult, error) {
	body := struct {
		From models.Point `json:"from"`
		To   models.Point `json:"to"`
	}{From: from, To: to}

	var result models.DistanceResult
	if err := c.post(ctx, "/geolocalizacao/distance", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
