// Package models defines data structures exchanged with the Sistema de
// Laudos backend.
package models

import "time"

// Contract processing states as reported by the backend.
const (
	StatusPendente    = "pendente"
	StatusProcessando = "processando"
	StatusConcluido   = "concluido"
	StatusErro        = "erro"
)

// AllStatuses lists every valid contract status, in lifecycle order.
var AllStatuses = []string{StatusPendente, StatusProcessando, StatusConcluido, StatusErro}

// Contrato represents an uploaded contract and its analysis state.
// Owned by the backend; the client holds a read-only copy per fetch.
type Contrato struct {
	ID                 string     `json:"id"`
	Filename           string     `json:"filename"`
	Status             string     `json:"status"`
	FileSizeBytes      int64      `json:"file_size_bytes"`
	CPFCliente         string     `json:"cpf_cliente,omitempty"`
	NumeroContrato     string     `json:"numero_contrato,omitempty"`
	EnderecoAssinatura *string    `json:"endereco_assinatura,omitempty"`
	Latitude           *float64   `json:"latitude,omitempty"`
	Longitude          *float64   `json:"longitude,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

// ContratoPage is one page of a contract listing.
type ContratoPage struct {
	Items []Contrato `json:"items"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

// UploadResult is the backend's answer to a contract upload.
type UploadResult struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

// ContratoStats aggregates counts per processing state.
type ContratoStats struct {
	Total       int `json:"total"`
	Pendente    int `json:"pendente"`
	Processando int `json:"processando"`
	Concluido   int `json:"concluido"`
	Erro        int `json:"erro"`
}
