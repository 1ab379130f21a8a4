package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
)

// ExportDocument is the full-database JSON export. Timestamps marshal as
// ISO-8601 through encoding/json's time handling.
type ExportDocument struct {
	ExportID    string    `json:"export_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Events          []*model.Event         `json:"events"`
	Malware         []*model.Malware       `json:"malware"`
	Phishing        []*model.Phish         `json:"phishing"`
	IOCs            []*model.IOC           `json:"iocs"`
	Mitigations     []*model.Mitigation    `json:"mitigations"`
	APTs            []*model.APT           `json:"apts"`
	Vulnerabilities []*model.Vulnerability `json:"vulnerabilities"`
	Clusters        []*model.Cluster       `json:"clusters"`

	Families   []*model.MalwareFamily   `json:"malware_families"`
	Categories []*model.MalwareCategory `json:"malware_categories"`
}

// Exporter builds full-database export documents
type Exporter struct {
	repo interfaces.Repository
}

// NewExporter creates the exporter
func NewExporter(repo interfaces.Repository) *Exporter {
	return &Exporter{repo: repo}
}

// Export loads every table into one document
func (uc *Exporter) Export(ctx context.Context) (*ExportDocument, error) {
	doc := &ExportDocument{
		ExportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}

	var err error
	if doc.Events, err = uc.repo.ListEvents(ctx); err != nil {
		return nil, err
	}
	if doc.Malware, err = uc.repo.ListMalware(ctx); err != nil {
		return nil, err
	}
	if doc.Phishing, err = uc.repo.ListPhishing(ctx); err != nil {
		return nil, err
	}
	if doc.IOCs, err = uc.repo.ListIOCs(ctx); err != nil {
		return nil, err
	}
	if doc.Mitigations, err = uc.repo.ListMitigations(ctx); err != nil {
		return nil, err
	}
	if doc.APTs, err = uc.repo.ListAPTs(ctx); err != nil {
		return nil, err
	}
	if doc.Vulnerabilities, err = uc.repo.ListVulnerabilities(ctx); err != nil {
		return nil, err
	}
	if doc.Clusters, err = uc.repo.ListClusters(ctx); err != nil {
		return nil, err
	}
	if doc.Families, err = uc.repo.ListFamilies(ctx); err != nil {
		return nil, err
	}
	if doc.Categories, err = uc.repo.ListCategories(ctx); err != nil {
		return nil, err
	}
	return doc, nil
}
