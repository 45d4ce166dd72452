package api

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/sistema-laudos/laudos-go/internal/download"
	"github.com/sistema-laudos/laudos-go/internal/models"
)

// ListContratosOptions configures a contract listing. Zero values fall back
// to the backend defaults: page 1, 10 items, newest first.
type ListContratosOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Statuses  []string
	Search    string
}

func (o ListContratosOptions) values() url.Values {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = 10
	}
	if o.SortBy == "" {
		o.SortBy = "created_at"
	}
	if o.SortOrder == "" {
		o.SortOrder = "desc"
	}

	v := url.Values{}
	v.Set("page", strconv.Itoa(o.Page))
	v.Set("limit", strconv.Itoa(o.Limit))
	v.Set("sort_by", o.SortBy)
	v.Set("sort_order", o.SortOrder)
	if len(o.Statuses) > 0 {
		v.Set("status", strings.Join(o.Statuses, ","))
	}
	if s := strings.TrimSpace(o.Search); s != "" {
		v.Set("search", s)
	}
	return v
}

// UploadContrato sends a contract PDF as multipart form data.
// onProgress, when non-nil, receives the transfer percentage.
func (c *Client) UploadContrato(ctx context.Context, filename string, content io.Reader, onProgress func(int)) (*models.UploadResult, error) {
	data, err := c.upload(ctx, "/contratos/upload", "file", filename, content, onProgress)
	if err != nil {
		return nil, err
	}
	var result models.UploadResult
	if err := unmarshalResult(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListContratos fetches one page of contracts with filtering, search,
// sorting and pagination.
func (c *Client) ListContratos(ctx context.Context, opts ListContratosOptions) (*models.ContratoPage, error) {
	var page models.ContratoPage
	if err := c.get(ctx, "/contratos", opts.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetContrato fetches a single contract with its analysis result.
func (c *Client) GetContrato(ctx context.Context, id string) (*models.Contrato, error) {
	var contrato models.Contrato
	if err := c.get(ctx, "/contratos/"+id, nil, &contrato); err != nil {
		return nil, notFound(err, "Contrato não encontrado")
	}
	return &contrato, nil
}

// DeleteContrato removes a contract and its derived data.
func (c *Client) DeleteContrato(ctx context.Context, id string) error {
	if err := c.del(ctx, "/contratos/"+id, nil); err != nil {
		return notFound(err, "Contrato não encontrado")
	}
	return nil
}

// ParecerByContrato fetches the legal opinion generated for a contract.
func (c *Client) ParecerByContrato(ctx context.Context, contratoID string) (*models.Parecer, error) {
	var parecer models.Parecer
	if err := c.get(ctx, "/contratos/"+contratoID+"/parecer", nil, &parecer); err != nil {
		return nil, notFound(err, "Parecer não encontrado")
	}
	return &parecer, nil
}

// GeoByContrato fetches the locations extracted for a contract.
func (c *Client) GeoByContrato(ctx context.Context, contratoID string) ([]models.Location, error) {
	var locations []models.Location
	if err := c.get(ctx, "/contratos/"+contratoID+"/geolocalizacao", nil, &locations); err != nil {
		return nil, notFound(err, "Geolocalização não encontrada")
	}
	return locations, nil
}

// DownloadParecerByContrato saves the contract's opinion PDF to dest.
func (c *Client) DownloadParecerByContrato(ctx context.Context, contratoID, dest string) error {
	data, err := c.getBlob(ctx, "/contratos/"+contratoID+"/parecer/download", nil)
	if err != nil {
		return notFound(err, "Parecer não encontrado")
	}
	return download.Save(dest, bytes.NewReader(data))
}

// ExportContrato saves the contract and its result to dest in the given
// format (json, csv or xlsx).
func (c *Client) ExportContrato(ctx context.Context, id, format, dest string) error {
	v := url.Values{}
	v.Set("format", format)
	data, err := c.getBlob(ctx, "/contratos/"+id+"/export", v)
	if err != nil {
		return notFound(err, "Contrato não encontrado")
	}
	return download.Save(dest, bytes.NewReader(data))
}

// ContratoStats fetches aggregate counts per processing state.
func (c *Client) ContratoStats(ctx context.Context) (*models.ContratoStats, error) {
	var stats models.ContratoStats
	if err := c.get(ctx, "/contratos/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
