package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/repository"
	"github.com/secmon-lab/harrier/pkg/usecase"
)

func TestImportMalwareCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("MixedRows", func(t *testing.T) {
		repo := repository.NewMemory()
		imp := usecase.NewImporter(repo)

		csv := strings.Join([]string{
			"name,family,description,occurrence_date,event_id",
			"dropper.exe,Emotet,initial loader,2025-06-01,",
			",TrickBot,missing name,,",
			"miner.bin,,no family,not-a-date,",
		}, "\n")

		result := gt.R1(imp.ImportMalwareCSV(ctx, strings.NewReader(csv))).NoError(t)
		gt.Equal(t, 2, result.Imported)
		gt.Equal(t, 1, result.Failed)

		list := gt.R1(repo.ListMalware(ctx)).NoError(t)
		gt.A(t, list).Length(2)
		for _, m := range list {
			if m.Name == "miner.bin" {
				// bad occurrence date degrades to nil, row still imported
				gt.V(t, m.OccurrenceDate).Nil()
			}
		}
	})

	t.Run("BOMAndHeaderCase", func(t *testing.T) {
		repo := repository.NewMemory()
		imp := usecase.NewImporter(repo)

		csv := "\xef\xbb\xbfName,Family\nloader.dll,Qakbot\n"
		result := gt.R1(imp.ImportMalwareCSV(ctx, strings.NewReader(csv))).NoError(t)
		gt.Equal(t, 1, result.Imported)
		gt.Equal(t, 0, result.Failed)

		list := gt.R1(repo.ListMalware(ctx)).NoError(t)
		gt.Equal(t, "Qakbot", list[0].Family)
	})

	t.Run("FamilyResolvesToReferenceRow", func(t *testing.T) {
		repo := repository.NewMemory()
		imp := usecase.NewImporter(repo)

		csv := "name,family\na.exe,Emotet\nb.exe,EMOTET\n"
		gt.R1(imp.ImportMalwareCSV(ctx, strings.NewReader(csv))).NoError(t)

		families := gt.R1(repo.ListFamilies(ctx)).NoError(t)
		gt.A(t, families).Length(1)
	})

	t.Run("DateAndEventColumnAliases", func(t *testing.T) {
		repo := repository.NewMemory()
		imp := usecase.NewImporter(repo)

		event := gt.R1(model.NewEvent("Loader outbreak")).NoError(t)
		gt.NoError(t, repo.CreateEvent(ctx, event))

		csv := "name,date,event\nstealer.exe,2025-06-05," + event.ID.String() + "\n"
		result := gt.R1(imp.ImportMalwareCSV(ctx, strings.NewReader(csv))).NoError(t)
		gt.Equal(t, 1, result.Imported)

		list := gt.R1(repo.ListMalware(ctx)).NoError(t)
		gt.V(t, list[0].OccurrenceDate).NotNil()
		gt.Equal(t, "2025-06-05", list[0].OccurrenceDate.Format("2006-01-02"))
		gt.V(t, list[0].EventID).NotNil()
		gt.Equal(t, event.ID, *list[0].EventID)
	})

	t.Run("CanonicalColumnWinsOverAlias", func(t *testing.T) {
		repo := repository.NewMemory()
		imp := usecase.NewImporter(repo)

		csv := "name,occurrence_date,date\nrat.exe,2025-06-10,2025-01-01\n"
		result := gt.R1(imp.ImportMalwareCSV(ctx, strings.NewReader(csv))).NoError(t)
		gt.Equal(t, 1, result.Imported)

		list := gt.R1(repo.ListMalware(ctx)).NoError(t)
		gt.Equal(t, "2025-06-10", list[0].OccurrenceDate.Format("2006-01-02"))
	})

	t.Run("EmptyBodyFails", func(t *testing.T) {
		repo := repository.NewMemory()
		imp := usecase.NewImporter(repo)
		_, err := imp.ImportMalwareCSV(ctx, strings.NewReader(""))
		gt.Error(t, err)
	})
}

func TestImportPhishCSV(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	imp := usecase.NewImporter(repo)

	csv := strings.Join([]string{
		"subject,sender,target,risk_level,occurrence_date",
		"Invoice due,billing@scam.example,finance,high,2025-06-02",
		"Package held,courier@fake.example,all-staff,urgent,",
		",nobody@x.example,,,",
	}, "\n")

	result := gt.R1(imp.ImportPhishCSV(ctx, strings.NewReader(csv))).NoError(t)
	gt.Equal(t, 2, result.Imported)
	gt.Equal(t, 1, result.Failed)

	list := gt.R1(repo.ListPhishing(ctx)).NoError(t)
	gt.A(t, list).Length(2)
	for _, p := range list {
		switch p.Subject {
		case "Invoice due":
			gt.V(t, p.RiskLevel).NotNil()
		case "Package held":
			// unknown risk level degrades to nil
			gt.V(t, p.RiskLevel).Nil()
		}
	}
}
