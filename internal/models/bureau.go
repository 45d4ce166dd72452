package models

import "time"

// BureauRecord holds credit bureau data fetched for a contract holder.
type BureauRecord struct {
	ID           string    `json:"id"`
	ContratoID   string    `json:"contrato_id"`
	CPF          string    `json:"cpf"`
	Score        int       `json:"score"`
	Status       string    `json:"status"`
	ConsultadoEm time.Time `json:"consultado_em"`
}

// BureauPage is one page of a bureau listing.
type BureauPage struct {
	Items []BureauRecord `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// BureauScore details the credit score behind a record.
type BureauScore struct {
	BureauID  string    `json:"bureau_id"`
	Score     int       `json:"score"`
	Band      string    `json:"band"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BureauInquiry is one entry in the inquiry history.
type BureauInquiry struct {
	Date   time.Time `json:"date"`
	Source string    `json:"source"`
	Reason string    `json:"reason,omitempty"`
}

// BureauRestriction is a negative record (negativação).
type BureauRestriction struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Creditor    string    `json:"creditor"`
	AmountCents int64     `json:"amount_cents"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// BureauAggregated summarizes a record across all sources.
type BureauAggregated struct {
	BureauID          string  `json:"bureau_id"`
	AverageScore      float64 `json:"average_score"`
	TotalInquiries    int     `json:"total_inquiries"`
	TotalRestrictions int     `json:"total_restrictions"`
}

// BureauFilter narrows a bureau listing.
type BureauFilter struct {
	ContratoID string
	ScoreMin   *int
	ScoreMax   *int
	Status     string
}
