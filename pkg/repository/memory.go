package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// Memory implements Repository with in-memory storage. Used by tests and
// as the reference implementation for the SQLite store's behavior.
type Memory struct {
	mu sync.RWMutex

	events          map[types.EventID]*model.Event
	malware         map[types.MalwareID]*model.Malware
	phishing        map[types.PhishID]*model.Phish
	iocs            map[types.IOCID]*model.IOC
	mitigations     map[types.MitigationID]*model.Mitigation
	apts            map[types.APTID]*model.APT
	families        map[types.FamilyID]*model.MalwareFamily
	categories      map[types.CategoryID]*model.MalwareCategory
	vulnerabilities map[types.VulnerabilityID]*model.Vulnerability
	clusters        map[types.ClusterID]*model.Cluster

	aptEvents    map[types.APTID]map[types.EventID]bool
	aptMalware   map[types.APTID]map[types.MalwareID]bool
	aptPhishing  map[types.APTID]map[types.PhishID]bool
	aptIOCs      map[types.APTID]map[types.IOCID]bool
	aptVulns     map[types.APTID]map[types.VulnerabilityID]bool

	nextID int
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		events:          make(map[types.EventID]*model.Event),
		malware:         make(map[types.MalwareID]*model.Malware),
		phishing:        make(map[types.PhishID]*model.Phish),
		iocs:            make(map[types.IOCID]*model.IOC),
		mitigations:     make(map[types.MitigationID]*model.Mitigation),
		apts:            make(map[types.APTID]*model.APT),
		families:        make(map[types.FamilyID]*model.MalwareFamily),
		categories:      make(map[types.CategoryID]*model.MalwareCategory),
		vulnerabilities: make(map[types.VulnerabilityID]*model.Vulnerability),
		clusters:        make(map[types.ClusterID]*model.Cluster),
		aptEvents:       make(map[types.APTID]map[types.EventID]bool),
		aptMalware:      make(map[types.APTID]map[types.MalwareID]bool),
		aptPhishing:     make(map[types.APTID]map[types.PhishID]bool),
		aptIOCs:         make(map[types.APTID]map[types.IOCID]bool),
		aptVulns:        make(map[types.APTID]map[types.VulnerabilityID]bool),
	}
}

func (m *Memory) allocID() int {
	m.nextID++
	return m.nextID
}

// domainDateLess orders by domain date descending with nulls last, then
// CreatedAt descending. Shared by every listing.
func domainDateLess(dateI, dateJ *time.Time, createdI, createdJ time.Time) bool {
	switch {
	case dateI != nil && dateJ == nil:
		return true
	case dateI == nil && dateJ != nil:
		return false
	case dateI != nil && dateJ != nil && !dateI.Equal(*dateJ):
		return dateI.After(*dateJ)
	default:
		return createdI.After(createdJ)
	}
}

// Event operations

func (m *Memory) CreateEvent(ctx context.Context, event *model.Event) error {
	if event == nil {
		return goerr.New("event is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	event.ID = types.EventID(m.allocID())
	cp := *event
	m.events[event.ID] = &cp
	return nil
}

func (m *Memory) GetEvent(ctx context.Context, id types.EventID) (*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	event, exists := m.events[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrEventNotFound, "get event", goerr.V("id", id))
	}
	cp := *event
	return &cp, nil
}

func (m *Memory) ListEvents(ctx context.Context) ([]*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]*model.Event, 0, len(m.events))
	for _, e := range m.events {
		cp := *e
		events = append(events, &cp)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return domainDateLess(events[i].EventDate, events[j].EventDate,
			events[i].CreatedAt, events[j].CreatedAt)
	})
	return events, nil
}

func (m *Memory) ListEventsInRange(ctx context.Context, w model.Window) ([]*model.Event, error) {
	events, err := m.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	filtered := events[:0]
	for _, e := range events {
		if w.Contains(e.EffectiveDate()) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (m *Memory) UpdateEvent(ctx context.Context, event *model.Event) error {
	if event == nil {
		return goerr.New("event is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.events[event.ID]; !exists {
		return goerr.Wrap(model.ErrEventNotFound, "update event", goerr.V("id", event.ID))
	}
	cp := *event
	m.events[event.ID] = &cp
	return nil
}

func (m *Memory) DeleteEvent(ctx context.Context, id types.EventID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.events[id]; !exists {
		return goerr.Wrap(model.ErrEventNotFound, "delete event", goerr.V("id", id))
	}
	delete(m.events, id)

	// Mitigations are owned by the event
	for mid, mit := range m.mitigations {
		if mit.EventID == id {
			delete(m.mitigations, mid)
		}
	}
	// Malware and phishing survive, detached
	for _, mal := range m.malware {
		if mal.EventID != nil && *mal.EventID == id {
			mal.EventID = nil
		}
	}
	for _, ph := range m.phishing {
		if ph.EventID != nil && *ph.EventID == id {
			ph.EventID = nil
		}
	}
	for _, links := range m.aptEvents {
		delete(links, id)
	}
	return nil
}

// Malware operations

func (m *Memory) CreateMalware(ctx context.Context, malware *model.Malware) error {
	if malware == nil {
		return goerr.New("malware is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	malware.ID = types.MalwareID(m.allocID())
	cp := *malware
	m.malware[malware.ID] = &cp
	return nil
}

func (m *Memory) GetMalware(ctx context.Context, id types.MalwareID) (*model.Malware, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	malware, exists := m.malware[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrMalwareNotFound, "get malware", goerr.V("id", id))
	}
	cp := *malware
	return &cp, nil
}

func (m *Memory) ListMalware(ctx context.Context) ([]*model.Malware, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*model.Malware, 0, len(m.malware))
	for _, mal := range m.malware {
		cp := *mal
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return domainDateLess(list[i].OccurrenceDate, list[j].OccurrenceDate,
			list[i].CreatedAt, list[j].CreatedAt)
	})
	return list, nil
}

func (m *Memory) ListMalwareInRange(ctx context.Context, w model.Window) ([]*model.Malware, error) {
	list, err := m.ListMalware(ctx)
	if err != nil {
		return nil, err
	}
	filtered := list[:0]
	for _, mal := range list {
		if w.Contains(mal.EffectiveDate()) {
			filtered = append(filtered, mal)
		}
	}
	return filtered, nil
}

func (m *Memory) ListMalwareByEvent(ctx context.Context, eventID types.EventID) ([]*model.Malware, error) {
	list, err := m.ListMalware(ctx)
	if err != nil {
		return nil, err
	}
	filtered := list[:0]
	for _, mal := range list {
		if mal.EventID != nil && *mal.EventID == eventID {
			filtered = append(filtered, mal)
		}
	}
	return filtered, nil
}

func (m *Memory) UpdateMalware(ctx context.Context, malware *model.Malware) error {
	if malware == nil {
		return goerr.New("malware is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.malware[malware.ID]; !exists {
		return goerr.Wrap(model.ErrMalwareNotFound, "update malware", goerr.V("id", malware.ID))
	}
	cp := *malware
	m.malware[malware.ID] = &cp
	return nil
}

func (m *Memory) DeleteMalware(ctx context.Context, id types.MalwareID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.malware[id]; !exists {
		return goerr.Wrap(model.ErrMalwareNotFound, "delete malware", goerr.V("id", id))
	}
	delete(m.malware, id)

	// IOCs cascade with their parent
	for iid, ioc := range m.iocs {
		if ioc.MalwareID != nil && *ioc.MalwareID == id {
			delete(m.iocs, iid)
		}
	}
	for _, links := range m.aptMalware {
		delete(links, id)
	}
	return nil
}

// Phishing operations

func (m *Memory) CreatePhish(ctx context.Context, phish *model.Phish) error {
	if phish == nil {
		return goerr.New("phish is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	phish.ID = types.PhishID(m.allocID())
	cp := *phish
	m.phishing[phish.ID] = &cp
	return nil
}

func (m *Memory) GetPhish(ctx context.Context, id types.PhishID) (*model.Phish, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	phish, exists := m.phishing[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrPhishNotFound, "get phish", goerr.V("id", id))
	}
	cp := *phish
	return &cp, nil
}

func (m *Memory) ListPhishing(ctx context.Context) ([]*model.Phish, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*model.Phish, 0, len(m.phishing))
	for _, ph := range m.phishing {
		cp := *ph
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return domainDateLess(list[i].OccurrenceDate, list[j].OccurrenceDate,
			list[i].CreatedAt, list[j].CreatedAt)
	})
	return list, nil
}

func (m *Memory) ListPhishingInRange(ctx context.Context, w model.Window) ([]*model.Phish, error) {
	list, err := m.ListPhishing(ctx)
	if err != nil {
		return nil, err
	}
	filtered := list[:0]
	for _, ph := range list {
		if w.Contains(ph.EffectiveDate()) {
			filtered = append(filtered, ph)
		}
	}
	return filtered, nil
}

func (m *Memory) ListPhishingByEvent(ctx context.Context, eventID types.EventID) ([]*model.Phish, error) {
	list, err := m.ListPhishing(ctx)
	if err != nil {
		return nil, err
	}
	filtered := list[:0]
	for _, ph := range list {
		if ph.EventID != nil && *ph.EventID == eventID {
			filtered = append(filtered, ph)
		}
	}
	return filtered, nil
}

func (m *Memory) UpdatePhish(ctx context.Context, phish *model.Phish) error {
	if phish == nil {
		return goerr.New("phish is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.phishing[phish.ID]; !exists {
		return goerr.Wrap(model.ErrPhishNotFound, "update phish", goerr.V("id", phish.ID))
	}
	cp := *phish
	m.phishing[phish.ID] = &cp
	return nil
}

func (m *Memory) DeletePhish(ctx context.Context, id types.PhishID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.phishing[id]; !exists {
		return goerr.Wrap(model.ErrPhishNotFound, "delete phish", goerr.V("id", id))
	}
	delete(m.phishing, id)

	for iid, ioc := range m.iocs {
		if ioc.PhishID != nil && *ioc.PhishID == id {
			delete(m.iocs, iid)
		}
	}
	for _, links := range m.aptPhishing {
		delete(links, id)
	}
	return nil
}

// IOC operations

func (m *Memory) CreateIOC(ctx context.Context, ioc *model.IOC) error {
	if ioc == nil {
		return goerr.New("ioc is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ioc.ID = types.IOCID(m.allocID())
	cp := *ioc
	m.iocs[ioc.ID] = &cp
	return nil
}

func (m *Memory) GetIOC(ctx context.Context, id types.IOCID) (*model.IOC, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ioc, exists := m.iocs[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrIOCNotFound, "get ioc", goerr.V("id", id))
	}
	cp := *ioc
	return &cp, nil
}

func (m *Memory) ListIOCs(ctx context.Context) ([]*model.IOC, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*model.IOC, 0, len(m.iocs))
	for _, ioc := range m.iocs {
		cp := *ioc
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (m *Memory) ListIOCsInRange(ctx context.Context, w model.Window) ([]*model.IOC, error) {
	list, err := m.ListIOCs(ctx)
	if err != nil {
		return nil, err
	}
	filtered := list[:0]
	for _, ioc := range list {
		if w.Contains(ioc.CreatedAt) {
			filtered = append(filtered, ioc)
		}
	}
	return filtered, nil
}

func (m *Memory) ListIOCsByMalware(ctx context.Context, malwareID types.MalwareID) ([]*model.IOC, error) {
	list, err := m.ListIOCs(ctx)
	if err != nil {
		return nil, err
	}
	filtered := list[:0]
	for _, ioc := range list {
		if ioc.MalwareID != nil && *ioc.MalwareID == malwareID {
			filtered = append(filtered, ioc)
		}
	}
	return filtered, nil
}

func (m *Memory) ListIOCsByPhish(ctx context.Context, phishID types.PhishID) ([]*model.IOC, error) {
	list, err := m.ListIOCs(ctx)
	if err != nil {
		return nil, err
	}
	filtered := list[:0]
	for _, ioc := range list {
		if ioc.PhishID != nil && *ioc.PhishID == phishID {
			filtered = append(filtered, ioc)
		}
	}
	return filtered, nil
}

func (m *Memory) UpdateIOC(ctx context.Context, ioc *model.IOC) error {
	if ioc == nil {
		return goerr.New("ioc is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.iocs[ioc.ID]; !exists {
		return goerr.Wrap(model.ErrIOCNotFound, "update ioc", goerr.V("id", ioc.ID))
	}
	cp := *ioc
	m.iocs[ioc.ID] = &cp
	return nil
}

func (m *Memory) DeleteIOC(ctx context.Context, id types.IOCID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.iocs[id]; !exists {
		return goerr.Wrap(model.ErrIOCNotFound, "delete ioc", goerr.V("id", id))
	}
	delete(m.iocs, id)
	for _, links := range m.aptIOCs {
		delete(links, id)
	}
	return nil
}

// Mitigation operations

func (m *Memory) CreateMitigation(ctx context.Context, mitigation *model.Mitigation) error {
	if mitigation == nil {
		return goerr.New("mitigation is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.events[mitigation.EventID]; !exists {
		return goerr.Wrap(model.ErrEventNotFound, "create mitigation",
			goerr.V("eventID", mitigation.EventID))
	}

	mitigation.ID = types.MitigationID(m.allocID())
	cp := *mitigation
	m.mitigations[mitigation.ID] = &cp
	return nil
}

func (m *Memory) GetMitigation(ctx context.Context, id types.MitigationID) (*model.Mitigation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mit, exists := m.mitigations[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrMitigationNotFound, "get mitigation", goerr.V("id", id))
	}
	cp := *mit
	return &cp, nil
}

func (m *Memory) ListMitigations(ctx context.Context) ([]*model.Mitigation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*model.Mitigation, 0, len(m.mitigations))
	for _, mit := range m.mitigations {
		cp := *mit
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (m *Memory) ListMitigationsByEvent(ctx context.Context, eventID types.EventID) ([]*model.Mitigation, error) {
	list, err := m.ListMitigations(ctx)
	if err != nil {
		return nil, err
	}
	filtered := list[:0]
	for _, mit := range list {
		if mit.EventID == eventID {
			filtered = append(filtered, mit)
		}
	}
	return filtered, nil
}

func (m *Memory) UpdateMitigation(ctx context.Context, mitigation *model.Mitigation) error {
	if mitigation == nil {
		return goerr.New("mitigation is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.mitigations[mitigation.ID]; !exists {
		return goerr.Wrap(model.ErrMitigationNotFound, "update mitigation",
			goerr.V("id", mitigation.ID))
	}
	mitigation.UpdatedAt = time.Now().UTC()
	cp := *mitigation
	m.mitigations[mitigation.ID] = &cp
	return nil
}

func (m *Memory) DeleteMitigation(ctx context.Context, id types.MitigationID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.mitigations[id]; !exists {
		return goerr.Wrap(model.ErrMitigationNotFound, "delete mitigation", goerr.V("id", id))
	}
	delete(m.mitigations, id)
	return nil
}

// APT operations

func (m *Memory) CreateAPT(ctx context.Context, apt *model.APT) error {
	if apt == nil {
		return goerr.New("apt is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	apt.ID = types.APTID(m.allocID())
	cp := *apt
	m.apts[apt.ID] = &cp
	return nil
}

func (m *Memory) GetAPT(ctx context.Context, id types.APTID) (*model.APT, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	apt, exists := m.apts[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrAPTNotFound, "get apt", goerr.V("id", id))
	}
	cp := *apt
	return &cp, nil
}

func (m *Memory) ListAPTs(ctx context.Context) ([]*model.APT, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*model.APT, 0, len(m.apts))
	for _, apt := range m.apts {
		cp := *apt
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
	return list, nil
}

func (m *Memory) UpdateAPT(ctx context.Context, apt *model.APT) error {
	if apt == nil {
		return goerr.New("apt is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.apts[apt.ID]; !exists {
		return goerr.Wrap(model.ErrAPTNotFound, "update apt", goerr.V("id", apt.ID))
	}
	cp := *apt
	m.apts[apt.ID] = &cp
	return nil
}

func (m *Memory) DeleteAPT(ctx context.Context, id types.APTID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.apts[id]; !exists {
		return goerr.Wrap(model.ErrAPTNotFound, "delete apt", goerr.V("id", id))
	}
	delete(m.apts, id)
	delete(m.aptEvents, id)
	delete(m.aptMalware, id)
	delete(m.aptPhishing, id)
	delete(m.aptIOCs, id)
	delete(m.aptVulns, id)
	return nil
}

func (m *Memory) GetAPTLinks(ctx context.Context, id types.APTID) (*model.APTLinks, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, exists := m.apts[id]; !exists {
		return nil, goerr.Wrap(model.ErrAPTNotFound, "get apt links", goerr.V("id", id))
	}

	links := &model.APTLinks{}
	for eid := range m.aptEvents[id] {
		if e, ok := m.events[eid]; ok {
			cp := *e
			links.Events = append(links.Events, &cp)
		}
	}
	for mid := range m.aptMalware[id] {
		if mal, ok := m.malware[mid]; ok {
			cp := *mal
			links.Malware = append(links.Malware, &cp)
		}
	}
	for pid := range m.aptPhishing[id] {
		if ph, ok := m.phishing[pid]; ok {
			cp := *ph
			links.Phishing = append(links.Phishing, &cp)
		}
	}
	for iid := range m.aptIOCs[id] {
		if ioc, ok := m.iocs[iid]; ok {
			cp := *ioc
			links.IOCs = append(links.IOCs, &cp)
		}
	}
	for vid := range m.aptVulns[id] {
		if v, ok := m.vulnerabilities[vid]; ok {
			cp := *v
			links.Vulnerabilities = append(links.Vulnerabilities, &cp)
		}
	}

	sort.SliceStable(links.Events, func(i, j int) bool { return links.Events[i].ID < links.Events[j].ID })
	sort.SliceStable(links.Malware, func(i, j int) bool { return links.Malware[i].ID < links.Malware[j].ID })
	sort.SliceStable(links.Phishing, func(i, j int) bool { return links.Phishing[i].ID < links.Phishing[j].ID })
	sort.SliceStable(links.IOCs, func(i, j int) bool { return links.IOCs[i].ID < links.IOCs[j].ID })
	sort.SliceStable(links.Vulnerabilities, func(i, j int) bool {
		return links.Vulnerabilities[i].ID < links.Vulnerabilities[j].ID
	})
	return links, nil
}

func (m *Memory) ListAPTsByEvent(ctx context.Context, eventID types.EventID) ([]*model.APT, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []*model.APT
	for aptID, links := range m.aptEvents {
		if links[eventID] {
			if apt, ok := m.apts[aptID]; ok {
				cp := *apt
				list = append(list, &cp)
			}
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *Memory) LinkAPTEvent(ctx context.Context, aptID types.APTID, eventID types.EventID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.apts[aptID]; !exists {
		return goerr.Wrap(model.ErrAPTNotFound, "link apt event", goerr.V("aptID", aptID))
	}
	if _, exists := m.events[eventID]; !exists {
		return goerr.Wrap(model.ErrEventNotFound, "link apt event", goerr.V("eventID", eventID))
	}
	if m.aptEvents[aptID] == nil {
		m.aptEvents[aptID] = make(map[types.EventID]bool)
	}
	m.aptEvents[aptID][eventID] = true
	return nil
}

func (m *Memory) UnlinkAPTEvent(ctx context.Context, aptID types.APTID, eventID types.EventID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.aptEvents[aptID], eventID)
	return nil
}

func (m *Memory) LinkAPTMalware(ctx context.Context, aptID types.APTID, malwareID types.MalwareID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.apts[aptID]; !exists {
		return goerr.Wrap(model.ErrAPTNotFound, "link apt malware", goerr.V("aptID", aptID))
	}
	if _, exists := m.malware[malwareID]; !exists {
		return goerr.Wrap(model.ErrMalwareNotFound, "link apt malware", goerr.V("malwareID", malwareID))
	}
	if m.aptMalware[aptID] == nil {
		m.aptMalware[aptID] = make(map[types.MalwareID]bool)
	}
	m.aptMalware[aptID][malwareID] = true
	return nil
}

func (m *Memory) UnlinkAPTMalware(ctx context.Context, aptID types.APTID, malwareID types.MalwareID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.aptMalware[aptID], malwareID)
	return nil
}

func (m *Memory) LinkAPTPhish(ctx context.Context, aptID types.APTID, phishID types.PhishID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.apts[aptID]; !exists {
		return goerr.Wrap(model.ErrAPTNotFound, "link apt phish", goerr.V("aptID", aptID))
	}
	if _, exists := m.phishing[phishID]; !exists {
		return goerr.Wrap(model.ErrPhishNotFound, "link apt phish", goerr.V("phishID", phishID))
	}
	if m.aptPhishing[aptID] == nil {
		m.aptPhishing[aptID] = make(map[types.PhishID]bool)
	}
	m.aptPhishing[aptID][phishID] = true
	return nil
}

func (m *Memory) UnlinkAPTPhish(ctx context.Context, aptID types.APTID, phishID types.PhishID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.aptPhishing[aptID], phishID)
	return nil
}

func (m *Memory) LinkAPTIOC(ctx context.Context, aptID types.APTID, iocID types.IOCID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.apts[aptID]; !exists {
		return goerr.Wrap(model.ErrAPTNotFound, "link apt ioc", goerr.V("aptID", aptID))
	}
	if _, exists := m.iocs[iocID]; !exists {
		return goerr.Wrap(model.ErrIOCNotFound, "link apt ioc", goerr.V("iocID", iocID))
	}
	if m.aptIOCs[aptID] == nil {
		m.aptIOCs[aptID] = make(map[types.IOCID]bool)
	}
	m.aptIOCs[aptID][iocID] = true
	return nil
}

func (m *Memory) UnlinkAPTIOC(ctx context.Context, aptID types.APTID, iocID types.IOCID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.aptIOCs[aptID], iocID)
	return nil
}

func (m *Memory) LinkAPTVulnerability(ctx context.Context, aptID types.APTID, vulnID types.VulnerabilityID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.apts[aptID]; !exists {
		return goerr.Wrap(model.ErrAPTNotFound, "link apt vulnerability", goerr.V("aptID", aptID))
	}
	if _, exists := m.vulnerabilities[vulnID]; !exists {
		return goerr.Wrap(model.ErrVulnerabilityNotFound, "link apt vulnerability", goerr.V("vulnID", vulnID))
	}
	if m.aptVulns[aptID] == nil {
		m.aptVulns[aptID] = make(map[types.VulnerabilityID]bool)
	}
	m.aptVulns[aptID][vulnID] = true
	return nil
}

func (m *Memory) UnlinkAPTVulnerability(ctx context.Context, aptID types.APTID, vulnID types.VulnerabilityID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.aptVulns[aptID], vulnID)
	return nil
}

// Reference data operations

func (m *Memory) GetOrCreateFamily(ctx context.Context, name string) (*model.MalwareFamily, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, goerr.New("family name is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateFamilyLocked(name), nil
}

func (m *Memory) getOrCreateFamilyLocked(name string) *model.MalwareFamily {
	for _, fam := range m.families {
		if strings.EqualFold(fam.Name, name) {
			cp := *fam
			return &cp
		}
	}
	fam := &model.MalwareFamily{
		ID:        types.FamilyID(m.allocID()),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	m.families[fam.ID] = fam
	cp := *fam
	return &cp
}

func (m *Memory) ListFamilies(ctx context.Context) ([]*model.MalwareFamily, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*model.MalwareFamily, 0, len(m.families))
	for _, fam := range m.families {
		cp := *fam
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
	return list, nil
}

func (m *Memory) GetOrCreateCategory(ctx context.Context, name string) (*model.MalwareCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, goerr.New("category name is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateCategoryLocked(name), nil
}

func (m *Memory) getOrCreateCategoryLocked(name string) *model.MalwareCategory {
	for _, cat := range m.categories {
		if strings.EqualFold(cat.Name, name) {
			cp := *cat
			return &cp
		}
	}
	cat := &model.MalwareCategory{
		ID:        types.CategoryID(m.allocID()),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	m.categories[cat.ID] = cat
	cp := *cat
	return &cp
}

func (m *Memory) ListCategories(ctx context.Context) ([]*model.MalwareCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*model.MalwareCategory, 0, len(m.categories))
	for _, cat := range m.categories {
		cp := *cat
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
	return list, nil
}

func (m *Memory) SeedReference(ctx context.Context, cfg *model.ReferenceConfig) error {
	if cfg == nil {
		return goerr.New("reference config is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.families) == 0 {
		for _, name := range cfg.Families {
			m.getOrCreateFamilyLocked(name)
		}
	}
	if len(m.categories) == 0 {
		for _, name := range cfg.Categories {
			m.getOrCreateCategoryLocked(name)
		}
	}
	return nil
}

// Vulnerability and cluster operations

func (m *Memory) CreateVulnerability(ctx context.Context, vuln *model.Vulnerability) error {
	if vuln == nil {
		return goerr.New("vulnerability is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	vuln.ID = types.VulnerabilityID(m.allocID())
	cp := *vuln
	m.vulnerabilities[vuln.ID] = &cp
	return nil
}

func (m *Memory) GetVulnerability(ctx context.Context, id types.VulnerabilityID) (*model.Vulnerability, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	vuln, exists := m.vulnerabilities[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrVulnerabilityNotFound, "get vulnerability", goerr.V("id", id))
	}
	cp := *vuln
	return &cp, nil
}

func (m *Memory) ListVulnerabilities(ctx context.Context) ([]*model.Vulnerability, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*model.Vulnerability, 0, len(m.vulnerabilities))
	for _, vuln := range m.vulnerabilities {
		cp := *vuln
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (m *Memory) DeleteVulnerability(ctx context.Context, id types.VulnerabilityID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.vulnerabilities[id]; !exists {
		return goerr.Wrap(model.ErrVulnerabilityNotFound, "delete vulnerability", goerr.V("id", id))
	}
	delete(m.vulnerabilities, id)
	for _, links := range m.aptVulns {
		delete(links, id)
	}
	return nil
}

func (m *Memory) CreateCluster(ctx context.Context, cluster *model.Cluster) error {
	if cluster == nil {
		return goerr.New("cluster is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cluster.ID = types.ClusterID(m.allocID())
	cp := *cluster
	m.clusters[cluster.ID] = &cp
	return nil
}

func (m *Memory) ListClusters(ctx context.Context) ([]*model.Cluster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*model.Cluster, 0, len(m.clusters))
	for _, c := range m.clusters {
		cp := *c
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (m *Memory) DeleteCluster(ctx context.Context, id types.ClusterID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.clusters[id]; !exists {
		return goerr.Wrap(model.ErrClusterNotFound, "delete cluster", goerr.V("id", id))
	}
	delete(m.clusters, id)
	return nil
}

// Counts returns per-table record counts

func (m *Memory) Counts(ctx context.Context) (*model.EntityCounts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := &model.EntityCounts{
		Events:      len(m.events),
		Malware:     len(m.malware),
		Phishing:    len(m.phishing),
		IOCs:        len(m.iocs),
		Mitigations: len(m.mitigations),
	}
	for _, e := range m.events {
		if e.Status.IsActive() {
			counts.OpenEvents++
		}
	}
	return counts, nil
}

func (m *Memory) ClearData(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = make(map[types.EventID]*model.Event)
	m.malware = make(map[types.MalwareID]*model.Malware)
	m.phishing = make(map[types.PhishID]*model.Phish)
	m.iocs = make(map[types.IOCID]*model.IOC)
	m.mitigations = make(map[types.MitigationID]*model.Mitigation)
	m.apts = make(map[types.APTID]*model.APT)
	m.vulnerabilities = make(map[types.VulnerabilityID]*model.Vulnerability)
	m.clusters = make(map[types.ClusterID]*model.Cluster)
	m.aptEvents = make(map[types.APTID]map[types.EventID]bool)
	m.aptMalware = make(map[types.APTID]map[types.MalwareID]bool)
	m.aptPhishing = make(map[types.APTID]map[types.PhishID]bool)
	m.aptIOCs = make(map[types.APTID]map[types.IOCID]bool)
	m.aptVulns = make(map[types.APTID]map[types.VulnerabilityID]bool)
	return nil
}

// Close is a no-op for the memory repository
func (m *Memory) Close() error {
	return nil
}
