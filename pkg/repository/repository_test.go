package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
	"github.com/secmon-lab/harrier/pkg/repository"
)

// testRepository runs the shared conformance suite against a repository
// implementation. Both the memory and SQLite stores must pass it.
func testRepository(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	ctx := context.Background()

	t.Run("EventCRUD", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		event := gt.R1(model.NewEvent("Suspicious login burst")).NoError(t)
		event.Severity = "High"
		gt.NoError(t, repo.CreateEvent(ctx, event))
		gt.True(t, event.ID > 0)

		got := gt.R1(repo.GetEvent(ctx, event.ID)).NoError(t)
		gt.Equal(t, "Suspicious login burst", got.Title)
		gt.Equal(t, types.EventStatusOpen, got.Status)

		got.Status = types.EventStatusResolved
		gt.NoError(t, repo.UpdateEvent(ctx, got))
		updated := gt.R1(repo.GetEvent(ctx, event.ID)).NoError(t)
		gt.Equal(t, types.EventStatusResolved, updated.Status)

		gt.NoError(t, repo.DeleteEvent(ctx, event.ID))
		_, err := repo.GetEvent(ctx, event.ID)
		gt.Error(t, err)
	})

	t.Run("GetMissingEventFails", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		_, err := repo.GetEvent(ctx, types.EventID(9999))
		gt.Error(t, err)
	})

	t.Run("EventListOrder", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		dated := gt.R1(model.NewEvent("dated old")).NoError(t)
		old := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
		dated.EventDate = &old
		gt.NoError(t, repo.CreateEvent(ctx, dated))

		recent := gt.R1(model.NewEvent("dated recent")).NoError(t)
		newer := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		recent.EventDate = &newer
		gt.NoError(t, repo.CreateEvent(ctx, recent))

		undated := gt.R1(model.NewEvent("no date")).NoError(t)
		gt.NoError(t, repo.CreateEvent(ctx, undated))

		events := gt.R1(repo.ListEvents(ctx)).NoError(t)
		gt.A(t, events).Length(3)
		gt.Equal(t, "dated recent", events[0].Title)
		gt.Equal(t, "dated old", events[1].Title)
		// records without a domain date sort last
		gt.Equal(t, "no date", events[2].Title)
	})

	t.Run("EventRangeUsesEffectiveDate", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		inside := gt.R1(model.NewEvent("inside")).NoError(t)
		d := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
		inside.EventDate = &d
		gt.NoError(t, repo.CreateEvent(ctx, inside))

		outside := gt.R1(model.NewEvent("outside")).NoError(t)
		d2 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		outside.EventDate = &d2
		gt.NoError(t, repo.CreateEvent(ctx, outside))

		// no event date: falls back to CreatedAt, which is now
		fallback := gt.R1(model.NewEvent("fallback")).NoError(t)
		gt.NoError(t, repo.CreateEvent(ctx, fallback))

		w := model.Window{
			Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Now().UTC().Add(time.Hour),
		}
		events := gt.R1(repo.ListEventsInRange(ctx, w)).NoError(t)
		gt.A(t, events).Length(2)
		for _, e := range events {
			gt.True(t, e.Title != "outside")
		}
	})

	t.Run("DeleteEventCascades", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		event := gt.R1(model.NewEvent("with children")).NoError(t)
		gt.NoError(t, repo.CreateEvent(ctx, event))

		mit := gt.R1(model.NewMitigation("Rotate credentials", event.ID)).NoError(t)
		gt.NoError(t, repo.CreateMitigation(ctx, mit))

		mal := gt.R1(model.NewMalware("dropper.exe")).NoError(t)
		mal.EventID = &event.ID
		gt.NoError(t, repo.CreateMalware(ctx, mal))

		ph := gt.R1(model.NewPhish("Invoice overdue")).NoError(t)
		ph.EventID = &event.ID
		gt.NoError(t, repo.CreatePhish(ctx, ph))

		gt.NoError(t, repo.DeleteEvent(ctx, event.ID))

		// mitigations go with the event
		_, err := repo.GetMitigation(ctx, mit.ID)
		gt.Error(t, err)

		// malware and phishing survive, detached
		keptMal := gt.R1(repo.GetMalware(ctx, mal.ID)).NoError(t)
		gt.V(t, keptMal.EventID).Nil()
		keptPh := gt.R1(repo.GetPhish(ctx, ph.ID)).NoError(t)
		gt.V(t, keptPh.EventID).Nil()
	})

	t.Run("DeleteMalwareRemovesIOCs", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		mal := gt.R1(model.NewMalware("loader.dll")).NoError(t)
		gt.NoError(t, repo.CreateMalware(ctx, mal))

		ioc := gt.R1(model.NewIOC("sha256", "abc123", &mal.ID, nil)).NoError(t)
		gt.NoError(t, repo.CreateIOC(ctx, ioc))

		orphan := gt.R1(model.NewIOC("domain", "evil.example.com", nil, nil)).NoError(t)
		gt.NoError(t, repo.CreateIOC(ctx, orphan))

		gt.NoError(t, repo.DeleteMalware(ctx, mal.ID))

		_, err := repo.GetIOC(ctx, ioc.ID)
		gt.Error(t, err)
		gt.R1(repo.GetIOC(ctx, orphan.ID)).NoError(t)
	})

	t.Run("DeletePhishRemovesIOCs", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ph := gt.R1(model.NewPhish("Password reset")).NoError(t)
		gt.NoError(t, repo.CreatePhish(ctx, ph))

		ioc := gt.R1(model.NewIOC("url", "http://bad.example/reset", nil, &ph.ID)).NoError(t)
		gt.NoError(t, repo.CreateIOC(ctx, ioc))

		gt.NoError(t, repo.DeletePhish(ctx, ph.ID))
		_, err := repo.GetIOC(ctx, ioc.ID)
		gt.Error(t, err)
	})

	t.Run("MitigationRequiresEvent", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		mit := gt.R1(model.NewMitigation("Patch servers", types.EventID(12345))).NoError(t)
		gt.Error(t, repo.CreateMitigation(ctx, mit))
	})

	t.Run("APTLinksIdempotent", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		apt := gt.R1(model.NewAPT("APT-Test")).NoError(t)
		gt.NoError(t, repo.CreateAPT(ctx, apt))
		event := gt.R1(model.NewEvent("campaign hit")).NoError(t)
		gt.NoError(t, repo.CreateEvent(ctx, event))

		gt.NoError(t, repo.LinkAPTEvent(ctx, apt.ID, event.ID))
		gt.NoError(t, repo.LinkAPTEvent(ctx, apt.ID, event.ID)) // repeat is a no-op

		links := gt.R1(repo.GetAPTLinks(ctx, apt.ID)).NoError(t)
		gt.A(t, links.Events).Length(1)

		gt.NoError(t, repo.UnlinkAPTEvent(ctx, apt.ID, event.ID))
		gt.NoError(t, repo.UnlinkAPTEvent(ctx, apt.ID, event.ID)) // repeat is a no-op

		links = gt.R1(repo.GetAPTLinks(ctx, apt.ID)).NoError(t)
		gt.A(t, links.Events).Length(0)
	})

	t.Run("APTLinkAllClasses", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		apt := gt.R1(model.NewAPT("APT-Full")).NoError(t)
		gt.NoError(t, repo.CreateAPT(ctx, apt))

		event := gt.R1(model.NewEvent("e")).NoError(t)
		gt.NoError(t, repo.CreateEvent(ctx, event))
		mal := gt.R1(model.NewMalware("m")).NoError(t)
		gt.NoError(t, repo.CreateMalware(ctx, mal))
		ph := gt.R1(model.NewPhish("p")).NoError(t)
		gt.NoError(t, repo.CreatePhish(ctx, ph))
		ioc := gt.R1(model.NewIOC("ip", "203.0.113.9", nil, nil)).NoError(t)
		gt.NoError(t, repo.CreateIOC(ctx, ioc))
		vuln := gt.R1(model.NewVulnerability("CVE-2025-0001", "")).NoError(t)
		gt.NoError(t, repo.CreateVulnerability(ctx, vuln))

		gt.NoError(t, repo.LinkAPTEvent(ctx, apt.ID, event.ID))
		gt.NoError(t, repo.LinkAPTMalware(ctx, apt.ID, mal.ID))
		gt.NoError(t, repo.LinkAPTPhish(ctx, apt.ID, ph.ID))
		gt.NoError(t, repo.LinkAPTIOC(ctx, apt.ID, ioc.ID))
		gt.NoError(t, repo.LinkAPTVulnerability(ctx, apt.ID, vuln.ID))

		links := gt.R1(repo.GetAPTLinks(ctx, apt.ID)).NoError(t)
		gt.A(t, links.Events).Length(1)
		gt.A(t, links.Malware).Length(1)
		gt.A(t, links.Phishing).Length(1)
		gt.A(t, links.IOCs).Length(1)
		gt.A(t, links.Vulnerabilities).Length(1)

		apts := gt.R1(repo.ListAPTsByEvent(ctx, event.ID)).NoError(t)
		gt.A(t, apts).Length(1)
		gt.Equal(t, "APT-Full", apts[0].Name)
	})

	t.Run("LinkUnknownAPTFails", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		event := gt.R1(model.NewEvent("e")).NoError(t)
		gt.NoError(t, repo.CreateEvent(ctx, event))
		gt.Error(t, repo.LinkAPTEvent(ctx, types.APTID(404), event.ID))
	})

	t.Run("DeleteAPTRemovesLinks", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		apt := gt.R1(model.NewAPT("APT-Gone")).NoError(t)
		gt.NoError(t, repo.CreateAPT(ctx, apt))
		event := gt.R1(model.NewEvent("e")).NoError(t)
		gt.NoError(t, repo.CreateEvent(ctx, event))
		gt.NoError(t, repo.LinkAPTEvent(ctx, apt.ID, event.ID))

		gt.NoError(t, repo.DeleteAPT(ctx, apt.ID))
		apts := gt.R1(repo.ListAPTsByEvent(ctx, event.ID)).NoError(t)
		gt.A(t, apts).Length(0)
		// the linked event itself is untouched
		gt.R1(repo.GetEvent(ctx, event.ID)).NoError(t)
	})

	t.Run("GetOrCreateFamilyCaseInsensitive", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		first := gt.R1(repo.GetOrCreateFamily(ctx, "Emotet")).NoError(t)
		second := gt.R1(repo.GetOrCreateFamily(ctx, "EMOTET")).NoError(t)
		gt.Equal(t, first.ID, second.ID)
		gt.Equal(t, "Emotet", second.Name) // original casing preserved

		families := gt.R1(repo.ListFamilies(ctx)).NoError(t)
		gt.A(t, families).Length(1)
	})

	t.Run("GetOrCreateCategoryCaseInsensitive", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		first := gt.R1(repo.GetOrCreateCategory(ctx, "Ransomware")).NoError(t)
		second := gt.R1(repo.GetOrCreateCategory(ctx, "ransomware")).NoError(t)
		gt.Equal(t, first.ID, second.ID)
	})

	t.Run("SeedReferenceOnlyWhenEmpty", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		cfg := &model.ReferenceConfig{
			Families:   []string{"Emotet", "TrickBot"},
			Categories: []string{"Ransomware"},
		}
		gt.NoError(t, repo.SeedReference(ctx, cfg))
		gt.A(t, gt.R1(repo.ListFamilies(ctx)).NoError(t)).Length(2)

		// second seed is a no-op
		gt.NoError(t, repo.SeedReference(ctx, cfg))
		gt.A(t, gt.R1(repo.ListFamilies(ctx)).NoError(t)).Length(2)

		// non-empty table suppresses seeding even with a longer list
		cfg2 := &model.ReferenceConfig{
			Families:   []string{"A", "B", "C"},
			Categories: []string{"X", "Y"},
		}
		gt.NoError(t, repo.SeedReference(ctx, cfg2))
		gt.A(t, gt.R1(repo.ListFamilies(ctx)).NoError(t)).Length(2)
	})

	t.Run("Counts", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		open := gt.R1(model.NewEvent("open one")).NoError(t)
		gt.NoError(t, repo.CreateEvent(ctx, open))
		resolved := gt.R1(model.NewEvent("closed one")).NoError(t)
		resolved.Status = types.EventStatusResolved
		gt.NoError(t, repo.CreateEvent(ctx, resolved))
		mal := gt.R1(model.NewMalware("m")).NoError(t)
		gt.NoError(t, repo.CreateMalware(ctx, mal))

		counts := gt.R1(repo.Counts(ctx)).NoError(t)
		gt.Equal(t, 2, counts.Events)
		gt.Equal(t, 1, counts.OpenEvents)
		gt.Equal(t, 1, counts.Malware)
		gt.Equal(t, 0, counts.Phishing)
	})

	t.Run("ClearDataKeepsReference", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		gt.R1(repo.GetOrCreateFamily(ctx, "Emotet")).NoError(t)
		event := gt.R1(model.NewEvent("wipe me")).NoError(t)
		gt.NoError(t, repo.CreateEvent(ctx, event))

		gt.NoError(t, repo.ClearData(ctx))

		counts := gt.R1(repo.Counts(ctx)).NoError(t)
		gt.Equal(t, 0, counts.Events)
		gt.A(t, gt.R1(repo.ListFamilies(ctx)).NoError(t)).Length(1)
	})

	t.Run("IOCConfidenceRoundTrip", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ioc := gt.R1(model.NewIOC("ip", "198.51.100.1", nil, nil)).NoError(t)
		gt.NoError(t, ioc.SetConfidence(85))
		gt.NoError(t, repo.CreateIOC(ctx, ioc))

		got := gt.R1(repo.GetIOC(ctx, ioc.ID)).NoError(t)
		gt.V(t, got.Confidence).NotNil()
		gt.Equal(t, 85, *got.Confidence)
	})
}

func TestMemoryRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) interfaces.Repository {
		return repository.NewMemory()
	})
}

func TestSQLiteRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) interfaces.Repository {
		path := filepath.Join(t.TempDir(), "harrier.db")
		repo, err := repository.NewSQLite(path)
		gt.NoError(t, err)
		return repo
	})
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "harrier.db")

	repo := gt.R1(repository.NewSQLite(path)).NoError(t)
	event := gt.R1(model.NewEvent("survives restart")).NoError(t)
	gt.NoError(t, repo.CreateEvent(ctx, event))
	gt.NoError(t, repo.Close())

	reopened := gt.R1(repository.NewSQLite(path)).NoError(t)
	defer reopened.Close()
	got := gt.R1(reopened.GetEvent(ctx, event.ID)).NoError(t)
	gt.Equal(t, "survives restart", got.Title)
}
