package api

import (
	"bytes"
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/sistema-laudos/laudos-go/internal/download"
	"github.com/sistema-laudos/laudos-go/internal/models"
)

// ListPareceresOptions configures a parecer listing.
type ListPareceresOptions struct {
	Page    int
	Limit   int
	Verdict string
	Status  string
	Search  string
}

func (o ListPareceresOptions) values() url.Values {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = 10
	}

	v := url.Values{}
	v.Set("page", strconv.Itoa(o.Page))
	v.Set("limit", strconv.Itoa(o.Limit))
	if o.Verdict != "" {
		v.Set("verdict", o.Verdict)
	}
	if o.Status != "" {
		v.Set("status", o.Status)
	}
	if s := strings.TrimSpace(o.Search); s != "" {
		v.Set("search", s)
	}
	return v
}

// GetParecer fetches a legal opinion by its own id.
func (c *Client) GetParecer(ctx context.Context, id string) (*models.Parecer, error) {
	var parecer models.Parecer
	if err := c.get(ctx, "/parecer/"+id, nil, &parecer); err != nil {
		return nil, notFound(err, "Parecer não encontrado")
	}
	return &parecer, nil
}

// ListPareceres fetches one page of legal opinions.
func (c *Client) ListPareceres(ctx context.Context, opts ListPareceresOptions) (*models.ParecerPage, error) {
	var page models.ParecerPage
	if err := c.get(ctx, "/parecer", opts.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GenerateParecer requests opinion generation for a contract.
func (c *Client) GenerateParecer(ctx context.Context, contratoID string, opts models.GenerateParecerOptions) (*models.Parecer, error) {
	body := struct {
		ContratoID string `json:"contrato_id"`
		models.GenerateParecerOptions
	}{ContratoID: contratoID, GenerateParecerOptions: opts}

	var parecer models.Parecer
	if err := c.post(ctx, "/parecer", body, &parecer); err != nil {
		return nil, notFound(err, "Contrato não encontrado")
	}
	return &parecer, nil
}

// UpdateParecer updates the opinion text.
func (c *Client) UpdateParecer(ctx context.Context, id, texto string) (*models.Parecer, error) {
	body := struct {
		TextoParecer string `json:"texto_parecer"`
	}{TextoParecer: texto}

	var parecer models.Parecer
	if err := c.put(ctx, "/parecer/"+id, body, &parecer); err != nil {
		return nil, notFound(err, "Parecer não encontrado")
	}
	return &parecer, nil
}

// DeleteParecer removes a legal opinion.
func (c *Client) DeleteParecer(ctx context.Context, id string) error {
	if err := c.del(ctx, "/parecer/"+id, nil); err != nil {
		return notFound(err, "Parecer não encontrado")
	}
	return nil
}

// DownloadParecer saves the opinion PDF to dest.
func (c *Client) DownloadParecer(ctx context.Context, id, dest string) error {
	data, err := c.getBlob(ctx, "/parecer/"+id+"/download", nil)
	if err != nil {
		return notFound(err, "Parecer não encontrado")
	}
	return download.Save(dest, bytes.NewReader(data))
}

// ParecerFindings fetches the flagged issues of an opinion.
func (c *Client) ParecerFindings(ctx context.Context, id string) ([]models.Finding, error) {
	var findings []models.Finding
	if err := c.get(ctx, "/parecer/"+id+"/findings", nil, &findings); err != nil {
		return nil, notFound(err, "Parecer não encontrado")
	}
	return findings, nil
}

// ParecerTimeline fetches the processing steps of an opinion.
func (c *Client) ParecerTimeline(ctx context.Context, id string) ([]models.TimelineEntry, error) {
	var timeline []models.TimelineEntry
	if err := c.get(ctx, "/parecer/"+id+"/timeline", nil, &timeline); err != nil {
		return nil, notFound(err, "Parecer não encontrado")
	}
	return timeline, nil
}
