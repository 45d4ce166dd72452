package models

import "time"

// Parecer classification by distance between signature and registered address.
const (
	TipoProximal      = "PROXIMAL"
	TipoModerado      = "MODERADO"
	TipoDistante      = "DISTANTE"
	TipoMuitoDistante = "MUITO_DISTANTE"
)

// Parecer verdicts.
const (
	VerdictAprovado     = "aprovado"
	VerdictComRessalvas = "com_ressalvas"
	VerdictReprovado    = "reprovado"
)

// Parecer is a generated legal opinion for a contract.
type Parecer struct {
	ID              string    `json:"id"`
	ContratoID      string    `json:"contrato_id"`
	TipoParecer     string    `json:"tipo_parecer"`
	Verdict         string    `json:"verdict,omitempty"`
	TextoParecer    string    `json:"texto_parecer"`
	DistanciaKm     float64   `json:"distancia_km"`
	LatitudeInicio  float64   `json:"latitude_inicio"`
	LongitudeInicio float64   `json:"longitude_inicio"`
	LatitudeFim     float64   `json:"latitude_fim"`
	LongitudeFim    float64   `json:"longitude_fim"`
	CreatedAt       time.Time `json:"criado_em"`
}

// ParecerPage is one page of a parecer listing.
type ParecerPage struct {
	Items []Parecer `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

// Finding is a single flagged issue inside a parecer.
type Finding struct {
	ID          string `json:"id"`
	ParecerID   string `json:"parecer_id"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TimelineEntry is one processing step recorded for a parecer.
type TimelineEntry struct {
	Step       string     `json:"step"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Detail     string     `json:"detail,omitempty"`
}

// GenerateParecerOptions configures parecer generation.
type GenerateParecerOptions struct {
	ForceRegenerate bool `json:"force_regenerate,omitempty"`
	IncludeGeo      bool `json:"include_geo,omitempty"`
	IncludeBureau   bool `json:"include_bureau,omitempty"`
}
