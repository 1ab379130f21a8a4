package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// listOrder sorts by domain date descending with nulls last, then newest
// created first.
func listOrder(dateCol string) string {
	return dateCol + " IS NULL, " + dateCol + " DESC, created_at DESC"
}

// rangeWhere is the window predicate pushed down to SQLite: records with
// no domain date fall back to their creation timestamp.
func rangeWhere(dateCol string) string {
	expr := "COALESCE(" + dateCol + ", created_at)"
	return expr + " >= ? AND " + expr + " < ?"
}

// SQLite implements Repository backed by a single database file
type SQLite struct {
	db *gorm.DB
}

// NewSQLite opens (creating if needed) the database file at path and
// migrates the schema. Migration is additive: existing tables gain new
// columns, rows are never dropped.
func NewSQLite(path string) (interfaces.Repository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, goerr.Wrap(err, "failed to enable foreign keys")
	}

	if err := db.AutoMigrate(
		&eventRecord{},
		&malwareRecord{},
		&phishRecord{},
		&iocRecord{},
		&mitigationRecord{},
		&aptRecord{},
		&familyRecord{},
		&categoryRecord{},
		&vulnerabilityRecord{},
		&clusterRecord{},
		&aptEventLink{},
		&aptMalwareLink{},
		&aptPhishLink{},
		&aptIOCLink{},
		&aptVulnerabilityLink{},
	); err != nil {
		return nil, goerr.Wrap(err, "failed to migrate schema")
	}

	return &SQLite{db: db}, nil
}

// Record types. These mirror the domain models with storage concerns
// (column tags, table names) kept out of the model package.

type eventRecord struct {
	ID           int    `gorm:"primaryKey;autoIncrement"`
	Title        string `gorm:"not null"`
	Description  string
	Severity     string
	Type         *string
	Status       string `gorm:"not null"`
	EventDate    *time.Time
	ClosedDate   *time.Time
	DetectedDate time.Time
	CreatedAt    time.Time
}

func (eventRecord) TableName() string { return "events" }

func toEventRecord(e *model.Event) *eventRecord {
	rec := &eventRecord{
		ID:           e.ID.Int(),
		Title:        e.Title,
		Description:  e.Description,
		Severity:     e.Severity,
		Status:       e.Status.String(),
		EventDate:    e.EventDate,
		ClosedDate:   e.ClosedDate,
		DetectedDate: e.DetectedDate,
		CreatedAt:    e.CreatedAt,
	}
	if e.Type != nil {
		s := e.Type.String()
		rec.Type = &s
	}
	return rec
}

func (r *eventRecord) toModel() *model.Event {
	e := &model.Event{
		ID:           types.EventID(r.ID),
		Title:        r.Title,
		Description:  r.Description,
		Severity:     r.Severity,
		Status:       types.EventStatus(r.Status),
		EventDate:    r.EventDate,
		ClosedDate:   r.ClosedDate,
		DetectedDate: r.DetectedDate,
		CreatedAt:    r.CreatedAt,
	}
	if r.Type != nil {
		t := types.EventType(*r.Type)
		e.Type = &t
	}
	return e
}

type malwareRecord struct {
	ID             int    `gorm:"primaryKey;autoIncrement"`
	Name           string `gorm:"not null"`
	Family         string
	FamilyID       *int
	CategoryID     *int
	Description    string
	OccurrenceDate *time.Time
	EventID        *int `gorm:"index"`
	CreatedAt      time.Time
}

func (malwareRecord) TableName() string { return "malware" }

func toMalwareRecord(m *model.Malware) *malwareRecord {
	rec := &malwareRecord{
		ID:             m.ID.Int(),
		Name:           m.Name,
		Family:         m.Family,
		Description:    m.Description,
		OccurrenceDate: m.OccurrenceDate,
		CreatedAt:      m.CreatedAt,
	}
	if m.FamilyID != nil {
		v := m.FamilyID.Int()
		rec.FamilyID = &v
	}
	if m.CategoryID != nil {
		v := m.CategoryID.Int()
		rec.CategoryID = &v
	}
	if m.EventID != nil {
		v := m.EventID.Int()
		rec.EventID = &v
	}
	return rec
}

func (r *malwareRecord) toModel() *model.Malware {
	m := &model.Malware{
		ID:             types.MalwareID(r.ID),
		Name:           r.Name,
		Family:         r.Family,
		Description:    r.Description,
		OccurrenceDate: r.OccurrenceDate,
		CreatedAt:      r.CreatedAt,
	}
	if r.FamilyID != nil {
		v := types.FamilyID(*r.FamilyID)
		m.FamilyID = &v
	}
	if r.CategoryID != nil {
		v := types.CategoryID(*r.CategoryID)
		m.CategoryID = &v
	}
	if r.EventID != nil {
		v := types.EventID(*r.EventID)
		m.EventID = &v
	}
	return m
}

type phishRecord struct {
	ID             int    `gorm:"primaryKey;autoIncrement"`
	Subject        string `gorm:"not null"`
	Sender         string
	Target         string
	Description    string
	RiskLevel      *string
	OccurrenceDate *time.Time
	EventID        *int `gorm:"index"`
	CreatedAt      time.Time
}

func (phishRecord) TableName() string { return "phishing" }

func toPhishRecord(p *model.Phish) *phishRecord {
	rec := &phishRecord{
		ID:             p.ID.Int(),
		Subject:        p.Subject,
		Sender:         p.Sender,
		Target:         p.Target,
		Description:    p.Description,
		OccurrenceDate: p.OccurrenceDate,
		CreatedAt:      p.CreatedAt,
	}
	if p.RiskLevel != nil {
		s := p.RiskLevel.String()
		rec.RiskLevel = &s
	}
	if p.EventID != nil {
		v := p.EventID.Int()
		rec.EventID = &v
	}
	return rec
}

func (r *phishRecord) toModel() *model.Phish {
	p := &model.Phish{
		ID:             types.PhishID(r.ID),
		Subject:        r.Subject,
		Sender:         r.Sender,
		Target:         r.Target,
		Description:    r.Description,
		OccurrenceDate: r.OccurrenceDate,
		CreatedAt:      r.CreatedAt,
	}
	if r.RiskLevel != nil {
		lvl := types.RiskLevel(*r.RiskLevel)
		p.RiskLevel = &lvl
	}
	if r.EventID != nil {
		v := types.EventID(*r.EventID)
		p.EventID = &v
	}
	return p
}

type iocRecord struct {
	ID          int    `gorm:"primaryKey;autoIncrement"`
	Type        string `gorm:"not null"`
	Value       string `gorm:"not null"`
	Description string
	Confidence  *int
	MalwareID   *int `gorm:"index"`
	PhishID     *int `gorm:"index"`
	CreatedAt   time.Time
}

func (iocRecord) TableName() string { return "iocs" }

func toIOCRecord(i *model.IOC) *iocRecord {
	rec := &iocRecord{
		ID:          i.ID.Int(),
		Type:        i.Type,
		Value:       i.Value,
		Description: i.Description,
		Confidence:  i.Confidence,
		CreatedAt:   i.CreatedAt,
	}
	if i.MalwareID != nil {
		v := i.MalwareID.Int()
		rec.MalwareID = &v
	}
	if i.PhishID != nil {
		v := i.PhishID.Int()
		rec.PhishID = &v
	}
	return rec
}

func (r *iocRecord) toModel() *model.IOC {
	i := &model.IOC{
		ID:          types.IOCID(r.ID),
		Type:        r.Type,
		Value:       r.Value,
		Description: r.Description,
		Confidence:  r.Confidence,
		CreatedAt:   r.CreatedAt,
	}
	if r.MalwareID != nil {
		v := types.MalwareID(*r.MalwareID)
		i.MalwareID = &v
	}
	if r.PhishID != nil {
		v := types.PhishID(*r.PhishID)
		i.PhishID = &v
	}
	return i
}

type mitigationRecord struct {
	ID          int    `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"not null"`
	Description string
	AssignedTo  string
	EventID     int `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (mitigationRecord) TableName() string { return "mitigations" }

func toMitigationRecord(m *model.Mitigation) *mitigationRecord {
	return &mitigationRecord{
		ID:          m.ID.Int(),
		Title:       m.Title,
		Description: m.Description,
		AssignedTo:  m.AssignedTo,
		EventID:     m.EventID.Int(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *mitigationRecord) toModel() *model.Mitigation {
	return &model.Mitigation{
		ID:          types.MitigationID(r.ID),
		Title:       r.Title,
		Description: r.Description,
		AssignedTo:  r.AssignedTo,
		EventID:     types.EventID(r.EventID),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type aptRecord struct {
	ID          int    `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"not null"`
	Aliases     string
	Description string
	Tactics     string
	Techniques  string
	CreatedAt   time.Time
}

func (aptRecord) TableName() string { return "apts" }

func toAPTRecord(a *model.APT) *aptRecord {
	return &aptRecord{
		ID:          a.ID.Int(),
		Name:        a.Name,
		Aliases:     a.Aliases,
		Description: a.Description,
		Tactics:     a.Tactics,
		Techniques:  a.Techniques,
		CreatedAt:   a.CreatedAt,
	}
}

func (r *aptRecord) toModel() *model.APT {
	return &model.APT{
		ID:          types.APTID(r.ID),
		Name:        r.Name,
		Aliases:     r.Aliases,
		Description: r.Description,
		Tactics:     r.Tactics,
		Techniques:  r.Techniques,
		CreatedAt:   r.CreatedAt,
	}
}

type familyRecord struct {
	ID        int    `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"not null;uniqueIndex"`
	CreatedAt time.Time
}

func (familyRecord) TableName() string { return "malware_families" }

type categoryRecord struct {
	ID        int    `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"not null;uniqueIndex"`
	CreatedAt time.Time
}

func (categoryRecord) TableName() string { return "malware_categories" }

type vulnerabilityRecord struct {
	ID          int `gorm:"primaryKey;autoIncrement"`
	CVE         string
	Title       string
	Description string
	CreatedAt   time.Time
}

func (vulnerabilityRecord) TableName() string { return "vulnerabilities" }

func (r *vulnerabilityRecord) toModel() *model.Vulnerability {
	return &model.Vulnerability{
		ID:          types.VulnerabilityID(r.ID),
		CVE:         r.CVE,
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

type clusterRecord struct {
	ID          int    `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"not null"`
	Description string
	CreatedAt   time.Time
}

func (clusterRecord) TableName() string { return "clusters" }

// Join tables for APT associations. Composite primary keys make link
// inserts with ON CONFLICT DO NOTHING naturally idempotent.

type aptEventLink struct {
	APTID   int `gorm:"primaryKey;autoIncrement:false"`
	EventID int `gorm:"primaryKey;autoIncrement:false"`
}

func (aptEventLink) TableName() string { return "apt_events" }

type aptMalwareLink struct {
	APTID     int `gorm:"primaryKey;autoIncrement:false"`
	MalwareID int `gorm:"primaryKey;autoIncrement:false"`
}

func (aptMalwareLink) TableName() string { return "apt_malware" }

type aptPhishLink struct {
	APTID   int `gorm:"primaryKey;autoIncrement:false"`
	PhishID int `gorm:"primaryKey;autoIncrement:false"`
}

func (aptPhishLink) TableName() string { return "apt_phishing" }

type aptIOCLink struct {
	APTID int `gorm:"primaryKey;autoIncrement:false"`
	IOCID int `gorm:"primaryKey;autoIncrement:false"`
}

func (aptIOCLink) TableName() string { return "apt_iocs" }

type aptVulnerabilityLink struct {
	APTID           int `gorm:"primaryKey;autoIncrement:false"`
	VulnerabilityID int `gorm:"primaryKey;autoIncrement:false"`
}

func (aptVulnerabilityLink) TableName() string { return "apt_vulnerabilities" }

// Event operations

func (s *SQLite) CreateEvent(ctx context.Context, event *model.Event) error {
	if event == nil {
		return goerr.New("event is nil")
	}
	rec := toEventRecord(event)
	rec.ID = 0
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return goerr.Wrap(err, "failed to create event")
	}
	event.ID = types.EventID(rec.ID)
	return nil
}

func (s *SQLite) GetEvent(ctx context.Context, id types.EventID) (*model.Event, error) {
	var rec eventRecord
	if err := s.db.WithContext(ctx).First(&rec, id.Int()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(model.ErrEventNotFound, "get event", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get event", goerr.V("id", id))
	}
	return rec.toModel(), nil
}

func (s *SQLite) ListEvents(ctx context.Context) ([]*model.Event, error) {
	var recs []eventRecord
	if err := s.db.WithContext(ctx).
		Order(listOrder("event_date")).
		Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list events")
	}
	events := make([]*model.Event, 0, len(recs))
	for i := range recs {
		events = append(events, recs[i].toModel())
	}
	return events, nil
}

func (s *SQLite) ListEventsInRange(ctx context.Context, w model.Window) ([]*model.Event, error) {
	var recs []eventRecord
	if err := s.db.WithContext(ctx).
		Where(rangeWhere("event_date"), w.Start, w.End).
		Order(listOrder("event_date")).
		Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list events in range")
	}
	events := make([]*model.Event, 0, len(recs))
	for i := range recs {
		events = append(events, recs[i].toModel())
	}
	return events, nil
}

func (s *SQLite) UpdateEvent(ctx context.Context, event *model.Event) error {
	if event == nil {
		return goerr.New("event is nil")
	}
	if _, err := s.GetEvent(ctx, event.ID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(toEventRecord(event)).Error; err != nil {
		return goerr.Wrap(err, "failed to update event", goerr.V("id", event.ID))
	}
	return nil
}

func (s *SQLite) DeleteEvent(ctx context.Context, id types.EventID) error {
	if _, err := s.GetEvent(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id.Int()).Delete(&mitigationRecord{}).Error; err != nil {
			return goerr.Wrap(err, "failed to delete event mitigations")
		}
		if err := tx.Model(&malwareRecord{}).Where("event_id = ?", id.Int()).
			Update("event_id", nil).Error; err != nil {
			return goerr.Wrap(err, "failed to detach malware")
		}
		if err := tx.Model(&phishRecord{}).Where("event_id = ?", id.Int()).
			Update("event_id", nil).Error; err != nil {
			return goerr.Wrap(err, "failed to detach phishing")
		}
		if err := tx.Where("event_id = ?", id.Int()).Delete(&aptEventLink{}).Error; err != nil {
			return goerr.Wrap(err, "failed to delete apt links")
		}
		if err := tx.Delete(&eventRecord{}, id.Int()).Error; err != nil {
			return goerr.Wrap(err, "failed to delete event", goerr.V("id", id))
		}
		return nil
	})
}

// Malware operations

func (s *SQLite) CreateMalware(ctx context.Context, malware *model.Malware) error {
	if malware == nil {
		return goerr.New("malware is nil")
	}
	rec := toMalwareRecord(malware)
	rec.ID = 0
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return goerr.Wrap(err, "failed to create malware")
	}
	malware.ID = types.MalwareID(rec.ID)
	return nil
}

func (s *SQLite) GetMalware(ctx context.Context, id types.MalwareID) (*model.Malware, error) {
	var rec malwareRecord
	if err := s.db.WithContext(ctx).First(&rec, id.Int()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(model.ErrMalwareNotFound, "get malware", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get malware", goerr.V("id", id))
	}
	return rec.toModel(), nil
}

func (s *SQLite) listMalware(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*model.Malware, error) {
	var recs []malwareRecord
	q := s.db.WithContext(ctx).Order(listOrder("occurrence_date"))
	if scope != nil {
		q = scope(q)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list malware")
	}
	list := make([]*model.Malware, 0, len(recs))
	for i := range recs {
		list = append(list, recs[i].toModel())
	}
	return list, nil
}

func (s *SQLite) ListMalware(ctx context.Context) ([]*model.Malware, error) {
	return s.listMalware(ctx, nil)
}

func (s *SQLite) ListMalwareInRange(ctx context.Context, w model.Window) ([]*model.Malware, error) {
	return s.listMalware(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where(rangeWhere("occurrence_date"), w.Start, w.End)
	})
}

func (s *SQLite) ListMalwareByEvent(ctx context.Context, eventID types.EventID) ([]*model.Malware, error) {
	return s.listMalware(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("event_id = ?", eventID.Int())
	})
}

func (s *SQLite) UpdateMalware(ctx context.Context, malware *model.Malware) error {
	if malware == nil {
		return goerr.New("malware is nil")
	}
	if _, err := s.GetMalware(ctx, malware.ID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(toMalwareRecord(malware)).Error; err != nil {
		return goerr.Wrap(err, "failed to update malware", goerr.V("id", malware.ID))
	}
	return nil
}

func (s *SQLite) DeleteMalware(ctx context.Context, id types.MalwareID) error {
	if _, err := s.GetMalware(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("malware_id = ?", id.Int()).Delete(&iocRecord{}).Error; err != nil {
			return goerr.Wrap(err, "failed to delete malware iocs")
		}
		if err := tx.Where("malware_id = ?", id.Int()).Delete(&aptMalwareLink{}).Error; err != nil {
			return goerr.Wrap(err, "failed to delete apt links")
		}
		if err := tx.Delete(&malwareRecord{}, id.Int()).Error; err != nil {
			return goerr.Wrap(err, "failed to delete malware", goerr.V("id", id))
		}
		return nil
	})
}

// Phishing operations

func (s *SQLite) CreatePhish(ctx context.Context, phish *model.Phish) error {
	if phish == nil {
		return goerr.New("phish is nil")
	}
	rec := toPhishRecord(phish)
	rec.ID = 0
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return goerr.Wrap(err, "failed to create phish")
	}
	phish.ID = types.PhishID(rec.ID)
	return nil
}

func (s *SQLite) GetPhish(ctx context.Context, id types.PhishID) (*model.Phish, error) {
	var rec phishRecord
	if err := s.db.WithContext(ctx).First(&rec, id.Int()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(model.ErrPhishNotFound, "get phish", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get phish", goerr.V("id", id))
	}
	return rec.toModel(), nil
}

func (s *SQLite) listPhishing(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*model.Phish, error) {
	var recs []phishRecord
	q := s.db.WithContext(ctx).Order(listOrder("occurrence_date"))
	if scope != nil {
		q = scope(q)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list phishing")
	}
	list := make([]*model.Phish, 0, len(recs))
	for i := range recs {
		list = append(list, recs[i].toModel())
	}
	return list, nil
}

func (s *SQLite) ListPhishing(ctx context.Context) ([]*model.Phish, error) {
	return s.listPhishing(ctx, nil)
}

func (s *SQLite) ListPhishingInRange(ctx context.Context, w model.Window) ([]*model.Phish, error) {
	return s.listPhishing(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where(rangeWhere("occurrence_date"), w.Start, w.End)
	})
}

func (s *SQLite) ListPhishingByEvent(ctx context.Context, eventID types.EventID) ([]*model.Phish, error) {
	return s.listPhishing(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("event_id = ?", eventID.Int())
	})
}

func (s *SQLite) UpdatePhish(ctx context.Context, phish *model.Phish) error {
	if phish == nil {
		return goerr.New("phish is nil")
	}
	if _, err := s.GetPhish(ctx, phish.ID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(toPhishRecord(phish)).Error; err != nil {
		return goerr.Wrap(err, "failed to update phish", goerr.V("id", phish.ID))
	}
	return nil
}

func (s *SQLite) DeletePhish(ctx context.Context, id types.PhishID) error {
	if _, err := s.GetPhish(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("phish_id = ?", id.Int()).Delete(&iocRecord{}).Error; err != nil {
			return goerr.Wrap(err, "failed to delete phish iocs")
		}
		if err := tx.Where("phish_id = ?", id.Int()).Delete(&aptPhishLink{}).Error; err != nil {
			return goerr.Wrap(err, "failed to delete apt links")
		}
		if err := tx.Delete(&phishRecord{}, id.Int()).Error; err != nil {
			return goerr.Wrap(err, "failed to delete phish", goerr.V("id", id))
		}
		return nil
	})
}

// IOC operations

func (s *SQLite) CreateIOC(ctx context.Context, ioc *model.IOC) error {
	if ioc == nil {
		return goerr.New("ioc is nil")
	}
	rec := toIOCRecord(ioc)
	rec.ID = 0
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return goerr.Wrap(err, "failed to create ioc")
	}
	ioc.ID = types.IOCID(rec.ID)
	return nil
}

func (s *SQLite) GetIOC(ctx context.Context, id types.IOCID) (*model.IOC, error) {
	var rec iocRecord
	if err := s.db.WithContext(ctx).First(&rec, id.Int()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(model.ErrIOCNotFound, "get ioc", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get ioc", goerr.V("id", id))
	}
	return rec.toModel(), nil
}

func (s *SQLite) listIOCs(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*model.IOC, error) {
	var recs []iocRecord
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if scope != nil {
		q = scope(q)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list iocs")
	}
	list := make([]*model.IOC, 0, len(recs))
	for i := range recs {
		list = append(list, recs[i].toModel())
	}
	return list, nil
}

func (s *SQLite) ListIOCs(ctx context.Context) ([]*model.IOC, error) {
	return s.listIOCs(ctx, nil)
}

func (s *SQLite) ListIOCsInRange(ctx context.Context, w model.Window) ([]*model.IOC, error) {
	return s.listIOCs(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("created_at >= ? AND created_at < ?", w.Start, w.End)
	})
}

func (s *SQLite) ListIOCsByMalware(ctx context.Context, malwareID types.MalwareID) ([]*model.IOC, error) {
	return s.listIOCs(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("malware_id = ?", malwareID.Int())
	})
}

func (s *SQLite) ListIOCsByPhish(ctx context.Context, phishID types.PhishID) ([]*model.IOC, error) {
	return s.listIOCs(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("phish_id = ?", phishID.Int())
	})
}

func (s *SQLite) UpdateIOC(ctx context.Context, ioc *model.IOC) error {
	if ioc == nil {
		return goerr.New("ioc is nil")
	}
	if _, err := s.GetIOC(ctx, ioc.ID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(toIOCRecord(ioc)).Error; err != nil {
		return goerr.Wrap(err, "failed to update ioc", goerr.V("id", ioc.ID))
	}
	return nil
}

func (s *SQLite) DeleteIOC(ctx context.Context, id types.IOCID) error {
	if _, err := s.GetIOC(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ioc_id = ?", id.Int()).Delete(&aptIOCLink{}).Error; err != nil {
			return goerr.Wrap(err, "failed to delete apt links")
		}
		if err := tx.Delete(&iocRecord{}, id.Int()).Error; err != nil {
			return goerr.Wrap(err, "failed to delete ioc", goerr.V("id", id))
		}
		return nil
	})
}

// Mitigation operations

func (s *SQLite) CreateMitigation(ctx context.Context, mitigation *model.Mitigation) error {
	if mitigation == nil {
		return goerr.New("mitigation is nil")
	}
	if _, err := s.GetEvent(ctx, mitigation.EventID); err != nil {
		return err
	}
	rec := toMitigationRecord(mitigation)
	rec.ID = 0
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return goerr.Wrap(err, "failed to create mitigation")
	}
	mitigation.ID = types.MitigationID(rec.ID)
	return nil
}

func (s *SQLite) GetMitigation(ctx context.Context, id types.MitigationID) (*model.Mitigation, error) {
	var rec mitigationRecord
	if err := s.db.WithContext(ctx).First(&rec, id.Int()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(model.ErrMitigationNotFound, "get mitigation", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get mitigation", goerr.V("id", id))
	}
	return rec.toModel(), nil
}

func (s *SQLite) ListMitigations(ctx context.Context) ([]*model.Mitigation, error) {
	var recs []mitigationRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list mitigations")
	}
	list := make([]*model.Mitigation, 0, len(recs))
	for i := range recs {
		list = append(list, recs[i].toModel())
	}
	return list, nil
}

func (s *SQLite) ListMitigationsByEvent(ctx context.Context, eventID types.EventID) ([]*model.Mitigation, error) {
	var recs []mitigationRecord
	if err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID.Int()).
		Order("created_at DESC").
		Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list mitigations by event")
	}
	list := make([]*model.Mitigation, 0, len(recs))
	for i := range recs {
		list = append(list, recs[i].toModel())
	}
	return list, nil
}

func (s *SQLite) UpdateMitigation(ctx context.Context, mitigation *model.Mitigation) error {
	if mitigation == nil {
		return goerr.New("mitigation is nil")
	}
	if _, err := s.GetMitigation(ctx, mitigation.ID); err != nil {
		return err
	}
	mitigation.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(toMitigationRecord(mitigation)).Error; err != nil {
		return goerr.Wrap(err, "failed to update mitigation", goerr.V("id", mitigation.ID))
	}
	return nil
}

func (s *SQLite) DeleteMitigation(ctx context.Context, id types.MitigationID) error {
	if _, err := s.GetMitigation(ctx, id); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&mitigationRecord{}, id.Int()).Error; err != nil {
		return goerr.Wrap(err, "failed to delete mitigation", goerr.V("id", id))
	}
	return nil
}

// APT operations

func (s *SQLite) CreateAPT(ctx context.Context, apt *model.APT) error {
	if apt == nil {
		return goerr.New("apt is nil")
	}
	rec := toAPTRecord(apt)
	rec.ID = 0
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return goerr.Wrap(err, "failed to create apt")
	}
	apt.ID = types.APTID(rec.ID)
	return nil
}

func (s *SQLite) GetAPT(ctx context.Context, id types.APTID) (*model.APT, error) {
	var rec aptRecord
	if err := s.db.WithContext(ctx).First(&rec, id.Int()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(model.ErrAPTNotFound, "get apt", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get apt", goerr.V("id", id))
	}
	return rec.toModel(), nil
}

func (s *SQLite) ListAPTs(ctx context.Context) ([]*model.APT, error) {
	var recs []aptRecord
	if err := s.db.WithContext(ctx).Order("name COLLATE NOCASE ASC").Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list apts")
	}
	list := make([]*model.APT, 0, len(recs))
	for i := range recs {
		list = append(list, recs[i].toModel())
	}
	return list, nil
}

func (s *SQLite) UpdateAPT(ctx context.Context, apt *model.APT) error {
	if apt == nil {
		return goerr.New("apt is nil")
	}
	if _, err := s.GetAPT(ctx, apt.ID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(toAPTRecord(apt)).Error; err != nil {
		return goerr.Wrap(err, "failed to update apt", goerr.V("id", apt.ID))
	}
	return nil
}

func (s *SQLite) DeleteAPT(ctx context.Context, id types.APTID) error {
	if _, err := s.GetAPT(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, link := range []any{
			&aptEventLink{}, &aptMalwareLink{}, &aptPhishLink{},
			&aptIOCLink{}, &aptVulnerabilityLink{},
		} {
			if err := tx.Where("apt_id = ?", id.Int()).Delete(link).Error; err != nil {
				return goerr.Wrap(err, "failed to delete apt links")
			}
		}
		if err := tx.Delete(&aptRecord{}, id.Int()).Error; err != nil {
			return goerr.Wrap(err, "failed to delete apt", goerr.V("id", id))
		}
		return nil
	})
}

func (s *SQLite) GetAPTLinks(ctx context.Context, id types.APTID) (*model.APTLinks, error) {
	if _, err := s.GetAPT(ctx, id); err != nil {
		return nil, err
	}

	links := &model.APTLinks{}

	var events []eventRecord
	if err := s.db.WithContext(ctx).
		Joins("JOIN apt_events ON apt_events.event_id = events.id").
		Where("apt_events.apt_id = ?", id.Int()).
		Order("events.id ASC").
		Find(&events).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to load linked events")
	}
	for i := range events {
		links.Events = append(links.Events, events[i].toModel())
	}

	var malware []malwareRecord
	if err := s.db.WithContext(ctx).
		Joins("JOIN apt_malware ON apt_malware.malware_id = malware.id").
		Where("apt_malware.apt_id = ?", id.Int()).
		Order("malware.id ASC").
		Find(&malware).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to load linked malware")
	}
	for i := range malware {
		links.Malware = append(links.Malware, malware[i].toModel())
	}

	var phishing []phishRecord
	if err := s.db.WithContext(ctx).
		Joins("JOIN apt_phishing ON apt_phishing.phish_id = phishing.id").
		Where("apt_phishing.apt_id = ?", id.Int()).
		Order("phishing.id ASC").
		Find(&phishing).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to load linked phishing")
	}
	for i := range phishing {
		links.Phishing = append(links.Phishing, phishing[i].toModel())
	}

	var iocs []iocRecord
	if err := s.db.WithContext(ctx).
		Joins("JOIN apt_iocs ON apt_iocs.ioc_id = iocs.id").
		Where("apt_iocs.apt_id = ?", id.Int()).
		Order("iocs.id ASC").
		Find(&iocs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to load linked iocs")
	}
	for i := range iocs {
		links.IOCs = append(links.IOCs, iocs[i].toModel())
	}

	var vulns []vulnerabilityRecord
	if err := s.db.WithContext(ctx).
		Joins("JOIN apt_vulnerabilities ON apt_vulnerabilities.vulnerability_id = vulnerabilities.id").
		Where("apt_vulnerabilities.apt_id = ?", id.Int()).
		Order("vulnerabilities.id ASC").
		Find(&vulns).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to load linked vulnerabilities")
	}
	for i := range vulns {
		links.Vulnerabilities = append(links.Vulnerabilities, vulns[i].toModel())
	}

	return links, nil
}

func (s *SQLite) ListAPTsByEvent(ctx context.Context, eventID types.EventID) ([]*model.APT, error) {
	var recs []aptRecord
	if err := s.db.WithContext(ctx).
		Joins("JOIN apt_events ON apt_events.apt_id = apts.id").
		Where("apt_events.event_id = ?", eventID.Int()).
		Order("apts.id ASC").
		Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list apts by event")
	}
	list := make([]*model.APT, 0, len(recs))
	for i := range recs {
		list = append(list, recs[i].toModel())
	}
	return list, nil
}

// insertLink inserts a join row, ignoring the conflict when it already
// exists. Both Link and Unlink are idempotent.
func (s *SQLite) insertLink(ctx context.Context, row any) error {
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error; err != nil {
		return goerr.Wrap(err, "failed to insert link")
	}
	return nil
}

func (s *SQLite) LinkAPTEvent(ctx context.Context, aptID types.APTID, eventID types.EventID) error {
	if _, err := s.GetAPT(ctx, aptID); err != nil {
		return err
	}
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return err
	}
	return s.insertLink(ctx, &aptEventLink{APTID: aptID.Int(), EventID: eventID.Int()})
}

func (s *SQLite) UnlinkAPTEvent(ctx context.Context, aptID types.APTID, eventID types.EventID) error {
	if err := s.db.WithContext(ctx).
		Where("apt_id = ? AND event_id = ?", aptID.Int(), eventID.Int()).
		Delete(&aptEventLink{}).Error; err != nil {
		return goerr.Wrap(err, "failed to unlink apt event")
	}
	return nil
}

func (s *SQLite) LinkAPTMalware(ctx context.Context, aptID types.APTID, malwareID types.MalwareID) error {
	if _, err := s.GetAPT(ctx, aptID); err != nil {
		return err
	}
	if _, err := s.GetMalware(ctx, malwareID); err != nil {
		return err
	}
	return s.insertLink(ctx, &aptMalwareLink{APTID: aptID.Int(), MalwareID: malwareID.Int()})
}

func (s *SQLite) UnlinkAPTMalware(ctx context.Context, aptID types.APTID, malwareID types.MalwareID) error {
	if err := s.db.WithContext(ctx).
		Where("apt_id = ? AND malware_id = ?", aptID.Int(), malwareID.Int()).
		Delete(&aptMalwareLink{}).Error; err != nil {
		return goerr.Wrap(err, "failed to unlink apt malware")
	}
	return nil
}

func (s *SQLite) LinkAPTPhish(ctx context.Context, aptID types.APTID, phishID types.PhishID) error {
	if _, err := s.GetAPT(ctx, aptID); err != nil {
		return err
	}
	if _, err := s.GetPhish(ctx, phishID); err != nil {
		return err
	}
	return s.insertLink(ctx, &aptPhishLink{APTID: aptID.Int(), PhishID: phishID.Int()})
}

func (s *SQLite) UnlinkAPTPhish(ctx context.Context, aptID types.APTID, phishID types.PhishID) error {
	if err := s.db.WithContext(ctx).
		Where("apt_id = ? AND phish_id = ?", aptID.Int(), phishID.Int()).
		Delete(&aptPhishLink{}).Error; err != nil {
		return goerr.Wrap(err, "failed to unlink apt phish")
	}
	return nil
}

func (s *SQLite) LinkAPTIOC(ctx context.Context, aptID types.APTID, iocID types.IOCID) error {
	if _, err := s.GetAPT(ctx, aptID); err != nil {
		return err
	}
	if _, err := s.GetIOC(ctx, iocID); err != nil {
		return err
	}
	return s.insertLink(ctx, &aptIOCLink{APTID: aptID.Int(), IOCID: iocID.Int()})
}

func (s *SQLite) UnlinkAPTIOC(ctx context.Context, aptID types.APTID, iocID types.IOCID) error {
	if err := s.db.WithContext(ctx).
		Where("apt_id = ? AND ioc_id = ?", aptID.Int(), iocID.Int()).
		Delete(&aptIOCLink{}).Error; err != nil {
		return goerr.Wrap(err, "failed to unlink apt ioc")
	}
	return nil
}

func (s *SQLite) LinkAPTVulnerability(ctx context.Context, aptID types.APTID, vulnID types.VulnerabilityID) error {
	if _, err := s.GetAPT(ctx, aptID); err != nil {
		return err
	}
	if _, err := s.GetVulnerability(ctx, vulnID); err != nil {
		return err
	}
	return s.insertLink(ctx, &aptVulnerabilityLink{APTID: aptID.Int(), VulnerabilityID: vulnID.Int()})
}

func (s *SQLite) UnlinkAPTVulnerability(ctx context.Context, aptID types.APTID, vulnID types.VulnerabilityID) error {
	if err := s.db.WithContext(ctx).
		Where("apt_id = ? AND vulnerability_id = ?", aptID.Int(), vulnID.Int()).
		Delete(&aptVulnerabilityLink{}).Error; err != nil {
		return goerr.Wrap(err, "failed to unlink apt vulnerability")
	}
	return nil
}

// Reference data operations

func (s *SQLite) GetOrCreateFamily(ctx context.Context, name string) (*model.MalwareFamily, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, goerr.New("family name is empty")
	}

	var rec familyRecord
	err := s.db.WithContext(ctx).
		Where("name COLLATE NOCASE = ?", name).
		First(&rec).Error
	if err == nil {
		return &model.MalwareFamily{
			ID:        types.FamilyID(rec.ID),
			Name:      rec.Name,
			CreatedAt: rec.CreatedAt,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, goerr.Wrap(err, "failed to look up family", goerr.V("name", name))
	}

	rec = familyRecord{Name: name, CreatedAt: time.Now().UTC()}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to create family", goerr.V("name", name))
	}
	return &model.MalwareFamily{
		ID:        types.FamilyID(rec.ID),
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (s *SQLite) ListFamilies(ctx context.Context) ([]*model.MalwareFamily, error) {
	var recs []familyRecord
	if err := s.db.WithContext(ctx).Order("name COLLATE NOCASE ASC").Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list families")
	}
	list := make([]*model.MalwareFamily, 0, len(recs))
	for _, rec := range recs {
		list = append(list, &model.MalwareFamily{
			ID:        types.FamilyID(rec.ID),
			Name:      rec.Name,
			CreatedAt: rec.CreatedAt,
		})
	}
	return list, nil
}

func (s *SQLite) GetOrCreateCategory(ctx context.Context, name string) (*model.MalwareCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, goerr.New("category name is empty")
	}

	var rec categoryRecord
	err := s.db.WithContext(ctx).
		Where("name COLLATE NOCASE = ?", name).
		First(&rec).Error
	if err == nil {
		return &model.MalwareCategory{
			ID:        types.CategoryID(rec.ID),
			Name:      rec.Name,
			CreatedAt: rec.CreatedAt,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, goerr.Wrap(err, "failed to look up category", goerr.V("name", name))
	}

	rec = categoryRecord{Name: name, CreatedAt: time.Now().UTC()}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to create category", goerr.V("name", name))
	}
	return &model.MalwareCategory{
		ID:        types.CategoryID(rec.ID),
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (s *SQLite) ListCategories(ctx context.Context) ([]*model.MalwareCategory, error) {
	var recs []categoryRecord
	if err := s.db.WithContext(ctx).Order("name COLLATE NOCASE ASC").Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list categories")
	}
	list := make([]*model.MalwareCategory, 0, len(recs))
	for _, rec := range recs {
		list = append(list, &model.MalwareCategory{
			ID:        types.CategoryID(rec.ID),
			Name:      rec.Name,
			CreatedAt: rec.CreatedAt,
		})
	}
	return list, nil
}

func (s *SQLite) SeedReference(ctx context.Context, cfg *model.ReferenceConfig) error {
	if cfg == nil {
		return goerr.New("reference config is nil")
	}

	var familyCount int64
	if err := s.db.WithContext(ctx).Model(&familyRecord{}).Count(&familyCount).Error; err != nil {
		return goerr.Wrap(err, "failed to count families")
	}
	if familyCount == 0 {
		for _, name := range cfg.Families {
			if _, err := s.GetOrCreateFamily(ctx, name); err != nil {
				return err
			}
		}
	}

	var categoryCount int64
	if err := s.db.WithContext(ctx).Model(&categoryRecord{}).Count(&categoryCount).Error; err != nil {
		return goerr.Wrap(err, "failed to count categories")
	}
	if categoryCount == 0 {
		for _, name := range cfg.Categories {
			if _, err := s.GetOrCreateCategory(ctx, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Vulnerability and cluster operations

func (s *SQLite) CreateVulnerability(ctx context.Context, vuln *model.Vulnerability) error {
	if vuln == nil {
		return goerr.New("vulnerability is nil")
	}
	rec := &vulnerabilityRecord{
		CVE:         vuln.CVE,
		Title:       vuln.Title,
		Description: vuln.Description,
		CreatedAt:   vuln.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return goerr.Wrap(err, "failed to create vulnerability")
	}
	vuln.ID = types.VulnerabilityID(rec.ID)
	return nil
}

func (s *SQLite) GetVulnerability(ctx context.Context, id types.VulnerabilityID) (*model.Vulnerability, error) {
	var rec vulnerabilityRecord
	if err := s.db.WithContext(ctx).First(&rec, id.Int()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(model.ErrVulnerabilityNotFound, "get vulnerability", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get vulnerability", goerr.V("id", id))
	}
	return rec.toModel(), nil
}

func (s *SQLite) ListVulnerabilities(ctx context.Context) ([]*model.Vulnerability, error) {
	var recs []vulnerabilityRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list vulnerabilities")
	}
	list := make([]*model.Vulnerability, 0, len(recs))
	for i := range recs {
		list = append(list, recs[i].toModel())
	}
	return list, nil
}

func (s *SQLite) DeleteVulnerability(ctx context.Context, id types.VulnerabilityID) error {
	if _, err := s.GetVulnerability(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vulnerability_id = ?", id.Int()).
			Delete(&aptVulnerabilityLink{}).Error; err != nil {
			return goerr.Wrap(err, "failed to delete apt links")
		}
		if err := tx.Delete(&vulnerabilityRecord{}, id.Int()).Error; err != nil {
			return goerr.Wrap(err, "failed to delete vulnerability", goerr.V("id", id))
		}
		return nil
	})
}

func (s *SQLite) CreateCluster(ctx context.Context, cluster *model.Cluster) error {
	if cluster == nil {
		return goerr.New("cluster is nil")
	}
	rec := &clusterRecord{
		Name:        cluster.Name,
		Description: cluster.Description,
		CreatedAt:   cluster.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return goerr.Wrap(err, "failed to create cluster")
	}
	cluster.ID = types.ClusterID(rec.ID)
	return nil
}

func (s *SQLite) ListClusters(ctx context.Context) ([]*model.Cluster, error) {
	var recs []clusterRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list clusters")
	}
	list := make([]*model.Cluster, 0, len(recs))
	for _, rec := range recs {
		list = append(list, &model.Cluster{
			ID:          types.ClusterID(rec.ID),
			Name:        rec.Name,
			Description: rec.Description,
			CreatedAt:   rec.CreatedAt,
		})
	}
	return list, nil
}

func (s *SQLite) DeleteCluster(ctx context.Context, id types.ClusterID) error {
	res := s.db.WithContext(ctx).Delete(&clusterRecord{}, id.Int())
	if res.Error != nil {
		return goerr.Wrap(res.Error, "failed to delete cluster", goerr.V("id", id))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(model.ErrClusterNotFound, "delete cluster", goerr.V("id", id))
	}
	return nil
}

// Counts returns per-table record counts

func (s *SQLite) Counts(ctx context.Context) (*model.EntityCounts, error) {
	counts := &model.EntityCounts{}

	tables := []struct {
		m   any
		dst *int
	}{
		{&eventRecord{}, &counts.Events},
		{&malwareRecord{}, &counts.Malware},
		{&phishRecord{}, &counts.Phishing},
		{&iocRecord{}, &counts.IOCs},
		{&mitigationRecord{}, &counts.Mitigations},
	}
	for _, t := range tables {
		var n int64
		if err := s.db.WithContext(ctx).Model(t.m).Count(&n).Error; err != nil {
			return nil, goerr.Wrap(err, "failed to count records")
		}
		*t.dst = int(n)
	}

	var open int64
	if err := s.db.WithContext(ctx).Model(&eventRecord{}).
		Where("status IN ?", activeStatuses()).
		Count(&open).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to count open events")
	}
	counts.OpenEvents = int(open)

	return counts, nil
}

func activeStatuses() []string {
	var active []string
	for _, st := range types.AllEventStatuses() {
		if st.IsActive() {
			active = append(active, st.String())
		}
	}
	return active
}

// ClearData removes every entity row but keeps the schema and the
// reference tables.
func (s *SQLite) ClearData(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&aptEventLink{}, &aptMalwareLink{}, &aptPhishLink{},
			&aptIOCLink{}, &aptVulnerabilityLink{},
			&mitigationRecord{}, &iocRecord{},
			&malwareRecord{}, &phishRecord{}, &eventRecord{},
			&aptRecord{}, &vulnerabilityRecord{}, &clusterRecord{},
		} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return goerr.Wrap(err, "failed to clear table")
			}
		}
		return nil
	})
}

// Close closes the underlying database connection
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return goerr.Wrap(err, "failed to get database handle")
	}
	if err := sqlDB.Close(); err != nil {
		return goerr.Wrap(err, "failed to close database")
	}
	return nil
}
