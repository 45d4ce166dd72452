package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sistema-laudos/laudos-go/internal/models"
	"github.com/sistema-laudos/laudos-go/internal/storage"
)

func TestDistancePostsBothPoints(t *testing.T) {
	var gotBody map[string]models.Point
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/geolocalizacao/distance", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"distance_km":12.5,"distance_meters":12500}`))
	}))
	defer server.Close()

	c := newTestClient(t, server, storage.NewMemoryStore(), nil, nil)
	result, err := c.Distance(context.Background(),
		models.Point{Latitude: -23.55, Longitude: -46.63},
		models.Point{Latitude: -22.90, Longitude: -43.17})
	require.NoError(t, err)

	assert.Equal(t, 12.5, result.DistanceKm)
	assert.Equal(t, -23.55, gotBody["from"].Latitude)
	assert.Equal(t, -43.17, gotBody["to"].Longitude)
}

func TestGeocodeSendsAddress(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"address":"Av. Paulista, 1000","latitude":-23.56,"longitude":-46.65}`))
	}))
	defer server.Close()

	c := newTestClient(t, server, storage.NewMemoryStore(), nil, nil)
	result, err := c.Geocode(context.Background(), "Av. Paulista, 1000")
	require.NoError(t, err)
	assert.Equal(t, "Av. Paulista, 1000", gotQuery.Get("address"))
	assert.Equal(t, -23.56, result.Latitude)
}

func TestListBureausFilterParams(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"items":[],"total":0,"page":1,"limit":10}`))
	}))
	defer server.Close()

	min, max := 300, 800
	c := newTestClient(t, server, storage.NewMemoryStore(), nil, nil)
	_, err := c.ListBureaus(context.Background(), 0, 0, models.BureauFilter{
		ContratoID: "c1",
		ScoreMin:   &min,
		ScoreMax:   &max,
		Status:     "ativo",
	})
	require.NoError(t, err)

	assert.Equal(t, "1", gotQuery.Get("page"), "page floor applied")
	assert.Equal(t, "c1", gotQuery.Get("contrato_id"))
	assert.Equal(t, "300", gotQuery.Get("score_min"))
	assert.Equal(t, "800", gotQuery.Get("score_max"))
	assert.Equal(t, "ativo", gotQuery.Get("status"))
}

func TestBureauNotFoundMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(t, server, storage.NewMemoryStore(), nil, nil)
	_, err := c.GetBureau(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "Dados de bureau não encontrados", err.Error())
}

func TestParecerFindingsNotFoundMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(t, server, storage.NewMemoryStore(), nil, nil)
	_, err := c.ParecerFindings(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "Parecer não encontrado", err.Error())
}
