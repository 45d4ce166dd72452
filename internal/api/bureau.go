package api

import (
	"bytes"
	"context"
	"net/url"
	"strconv"

	"github.com/sistema-laudos/laudos-go/internal/download"
	"github.com/sistema-laudos/laudos-go/internal/models"
)

// GetBureau fetches the credit bureau record gathered for a contract.
func (c *Client) GetBureau(ctx context.Context, contratoID string) (*models.BureauRecord, error) {
	var record models.BureauRecord
	if err := c.get(ctx, "/bureau/"+contratoID, nil, &record); err != nil {
		return nil, notFound(err, "Dados de bureau não encontrados")
	}
	return &record, nil
}

// ListBureaus fetches one page of bureau records.
func (c *Client) ListBureaus(ctx context.Context, page, limit int, filter models.BureauFilter) (*models.BureauPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(limit))
	if filter.ContratoID != "" {
		v.Set("contrato_id", filter.ContratoID)
	}
	if filter.ScoreMin != nil {
		v.Set("score_min", strconv.Itoa(*filter.ScoreMin))
	}
	if filter.ScoreMax != nil {
		v.Set("score_max", strconv.Itoa(*filter.ScoreMax))
	}
	if filter.Status != "" {
		v.Set("status", filter.Status)
	}

	var result models.BureauPage
	if err := c.get(ctx, "/bureau", v, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BureauScore fetches the credit score behind a bureau record.
func (c *Client) BureauScore(ctx context.Context, bureauID string) (*models.BureauScore, error) {
	var score models.BureauScore
	if err := c.get(ctx, "/bureau/"+bureauID+"/score", nil, &score); err != nil {
		return nil, notFound(err, "Dados de bureau não encontrados")
	}
	return &score, nil
}

// BureauHistory fetches the inquiry history of a bureau record.
func (c *Client) BureauHistory(ctx context.Context, bureauID string) ([]models.BureauInquiry, error) {
	var history []models.BureauInquiry
	if err := c.get(ctx, "/bureau/"+bureauID+"/history", nil, &history); err != nil {
		return nil, notFound(err, "Dados de bureau não encontrados")
	}
	return history, nil
}

// BureauRestrictions fetches negative records for a bureau record.
func (c *Client) BureauRestrictions(ctx context.Context, bureauID string) ([]models.BureauRestriction, error) {
	var restrictions []models.BureauRestriction
	if err := c.get(ctx, "/bureau/"+bureauID+"/restrictions", nil, &restrictions); err != nil {
		return nil, notFound(err, "Dados de bureau não encontrados")
	}
	return restrictions, nil
}

// BureauAggregated fetches the cross-source summary of a bureau record.
func (c *Client) BureauAggregated(ctx context.Context, bureauID string) (*models.BureauAggregated, error) {
	var aggregated models.BureauAggregated
	if err := c.get(ctx, "/bureau/"+bureauID+"/aggregated", nil, &aggregated); err != nil {
		return nil, notFound(err, "Dados de bureau não encontrados")
	}
	return &aggregated, nil
}

// ExportBureau saves a bureau record export (csv or xlsx) to dest.
func (c *Client) ExportBureau(ctx context.Context, bureauID, format, dest string) error {
	v := url.Values{}
	v.Set("format", format)
	data, err := c.getBlob(ctx, "/bureau/"+bureauID+"/export", v)
	if err != nil {
		return notFound(err, "Dados de bureau não encontrados")
	}
	return download.Save(dest, bytes.NewReader(data))
}
