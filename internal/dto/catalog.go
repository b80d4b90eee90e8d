package dto

import "github.com/noah-isme/qa-dashboard-api/internal/models"

// CatalogCategory describes one evaluation type.
type CatalogCategory struct {
	QAType        models.QAType `json:"qaType"`
	PassThreshold int           `json:"passThreshold"`
	Guidelines    []string      `json:"guidelines"`
}

// CatalogResponse lists the guideline checklists and the form choices.
type CatalogResponse struct {
	Version    string            `json:"version"`
	Categories []CatalogCategory `json:"categories"`
	Centers    []models.Center   `json:"centers"`
}
