package interfaces

import (
	"context"

	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// Repository defines the interface for entity persistence. List operations
// return entities sorted most-recent-domain-date first with nulls last;
// the *InRange variants push the effective-date window predicate down to
// the store instead of filtering in handlers.
type Repository interface {
	// Event operations
	CreateEvent(ctx context.Context, event *model.Event) error
	GetEvent(ctx context.Context, id types.EventID) (*model.Event, error)
	ListEvents(ctx context.Context) ([]*model.Event, error)
	ListEventsInRange(ctx context.Context, w model.Window) ([]*model.Event, error)
	UpdateEvent(ctx context.Context, event *model.Event) error
	// DeleteEvent removes the event and its mitigations; malware and
	// phishing children are detached, not deleted.
	DeleteEvent(ctx context.Context, id types.EventID) error

	// Malware operations
	CreateMalware(ctx context.Context, malware *model.Malware) error
	GetMalware(ctx context.Context, id types.MalwareID) (*model.Malware, error)
	ListMalware(ctx context.Context) ([]*model.Malware, error)
	ListMalwareInRange(ctx context.Context, w model.Window) ([]*model.Malware, error)
	ListMalwareByEvent(ctx context.Context, eventID types.EventID) ([]*model.Malware, error)
	UpdateMalware(ctx context.Context, malware *model.Malware) error
	// DeleteMalware removes the sample and its IOCs
	DeleteMalware(ctx context.Context, id types.MalwareID) error

	// Phishing operations
	CreatePhish(ctx context.Context, phish *model.Phish) error
	GetPhish(ctx context.Context, id types.PhishID) (*model.Phish, error)
	ListPhishing(ctx context.Context) ([]*model.Phish, error)
	ListPhishingInRange(ctx context.Context, w model.Window) ([]*model.Phish, error)
	ListPhishingByEvent(ctx context.Context, eventID types.EventID) ([]*model.Phish, error)
	UpdatePhish(ctx context.Context, phish *model.Phish) error
	// DeletePhish removes the instance and its IOCs
	DeletePhish(ctx context.Context, id types.PhishID) error

	// IOC operations
	CreateIOC(ctx context.Context, ioc *model.IOC) error
	GetIOC(ctx context.Context, id types.IOCID) (*model.IOC, error)
	ListIOCs(ctx context.Context) ([]*model.IOC, error)
	ListIOCsInRange(ctx context.Context, w model.Window) ([]*model.IOC, error)
	ListIOCsByMalware(ctx context.Context, malwareID types.MalwareID) ([]*model.IOC, error)
	ListIOCsByPhish(ctx context.Context, phishID types.PhishID) ([]*model.IOC, error)
	UpdateIOC(ctx context.Context, ioc *model.IOC) error
	DeleteIOC(ctx context.Context, id types.IOCID) error

	// Mitigation operations
	CreateMitigation(ctx context.Context, mitigation *model.Mitigation) error
	GetMitigation(ctx context.Context, id types.MitigationID) (*model.Mitigation, error)
	ListMitigations(ctx context.Context) ([]*model.Mitigation, error)
	ListMitigationsByEvent(ctx context.Context, eventID types.EventID) ([]*model.Mitigation, error)
	UpdateMitigation(ctx context.Context, mitigation *model.Mitigation) error
	DeleteMitigation(ctx context.Context, id types.MitigationID) error

	// APT operations. Link and Unlink are idempotent in both directions:
	// linking an existing pair or unlinking a missing pair is a no-op.
	CreateAPT(ctx context.Context, apt *model.APT) error
	GetAPT(ctx context.Context, id types.APTID) (*model.APT, error)
	ListAPTs(ctx context.Context) ([]*model.APT, error)
	UpdateAPT(ctx context.Context, apt *model.APT) error
	DeleteAPT(ctx context.Context, id types.APTID) error
	GetAPTLinks(ctx context.Context, id types.APTID) (*model.APTLinks, error)
	ListAPTsByEvent(ctx context.Context, eventID types.EventID) ([]*model.APT, error)
	LinkAPTEvent(ctx context.Context, aptID types.APTID, eventID types.EventID) error
	UnlinkAPTEvent(ctx context.Context, aptID types.APTID, eventID types.EventID) error
	LinkAPTMalware(ctx context.Context, aptID types.APTID, malwareID types.MalwareID) error
	UnlinkAPTMalware(ctx context.Context, aptID types.APTID, malwareID types.MalwareID) error
	LinkAPTPhish(ctx context.Context, aptID types.APTID, phishID types.PhishID) error
	UnlinkAPTPhish(ctx context.Context, aptID types.APTID, phishID types.PhishID) error
	LinkAPTIOC(ctx context.Context, aptID types.APTID, iocID types.IOCID) error
	UnlinkAPTIOC(ctx context.Context, aptID types.APTID, iocID types.IOCID) error
	LinkAPTVulnerability(ctx context.Context, aptID types.APTID, vulnID types.VulnerabilityID) error
	UnlinkAPTVulnerability(ctx context.Context, aptID types.APTID, vulnID types.VulnerabilityID) error

	// Reference data operations. GetOrCreate resolves names
	// case-insensitively to avoid duplicate rows.
	GetOrCreateFamily(ctx context.Context, name string) (*model.MalwareFamily, error)
	ListFamilies(ctx context.Context) ([]*model.MalwareFamily, error)
	GetOrCreateCategory(ctx context.Context, name string) (*model.MalwareCategory, error)
	ListCategories(ctx context.Context) ([]*model.MalwareCategory, error)
	// SeedReference inserts the default reference rows when the
	// corresponding tables are empty.
	SeedReference(ctx context.Context, cfg *model.ReferenceConfig) error

	// Vulnerability and cluster operations (minimal by design)
	CreateVulnerability(ctx context.Context, vuln *model.Vulnerability) error
	GetVulnerability(ctx context.Context, id types.VulnerabilityID) (*model.Vulnerability, error)
	ListVulnerabilities(ctx context.Context) ([]*model.Vulnerability, error)
	DeleteVulnerability(ctx context.Context, id types.VulnerabilityID) error
	CreateCluster(ctx context.Context, cluster *model.Cluster) error
	ListClusters(ctx context.Context) ([]*model.Cluster, error)
	DeleteCluster(ctx context.Context, id types.ClusterID) error

	// Counts returns per-table record counts for the dashboard
	Counts(ctx context.Context) (*model.EntityCounts, error)

	// ClearData removes every entity row but keeps the schema and the
	// reference tables.
	ClearData(ctx context.Context) error

	// Close closes the repository connection
	Close() error
}

// SettingsStore persists the mutable application settings outside the
// relational store. Load never fails: on any read problem it returns the
// hardcoded defaults.
type SettingsStore interface {
	Load(ctx context.Context) *model.Settings
	Save(ctx context.Context, settings *model.Settings) error
}
