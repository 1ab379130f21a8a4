package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/harrier/pkg/repository"
	"github.com/secmon-lab/harrier/pkg/usecase"
)

func TestAPTLinkWorkflow(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	apts := usecase.NewAPT(repo)
	events := usecase.NewEvent(repo)

	apt := gt.R1(apts.Create(ctx, usecase.APTInput{
		Name:    "Velvet Chollima",
		Aliases: "Kimsuky",
	})).NoError(t)
	event := gt.R1(events.Create(ctx, usecase.EventInput{Title: "spearphish"})).NoError(t)

	gt.NoError(t, apts.Link(ctx, apt.ID, usecase.LinkEvent, event.ID.String()))
	gt.NoError(t, apts.Link(ctx, apt.ID, usecase.LinkEvent, event.ID.String()))

	links := gt.R1(apts.Links(ctx, apt.ID)).NoError(t)
	gt.A(t, links.Events).Length(1)

	gt.NoError(t, apts.Unlink(ctx, apt.ID, usecase.LinkEvent, event.ID.String()))
	links = gt.R1(apts.Links(ctx, apt.ID)).NoError(t)
	gt.A(t, links.Events).Length(0)

	t.Run("UnknownClass", func(t *testing.T) {
		gt.Error(t, apts.Link(ctx, apt.ID, "campaign", "1"))
	})

	t.Run("BadTargetID", func(t *testing.T) {
		gt.Error(t, apts.Link(ctx, apt.ID, usecase.LinkEvent, "abc"))
		gt.Error(t, apts.Link(ctx, apt.ID, usecase.LinkEvent, "-1"))
	})
}

func TestIOCLinkInvariant(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	malware := usecase.NewMalware(repo)
	phishing := usecase.NewPhish(repo)
	iocs := usecase.NewIOC(repo)

	mal := gt.R1(malware.Create(ctx, usecase.MalwareInput{Name: "rat.exe"})).NoError(t)
	ph := gt.R1(phishing.Create(ctx, usecase.PhishInput{Subject: "bait"})).NoError(t)

	// both parents set violates the invariant
	_, err := iocs.Create(ctx, usecase.IOCInput{
		Type:      "domain",
		Value:     "c2.example",
		MalwareID: mal.ID.String(),
		PhishID:   ph.ID.String(),
	})
	gt.Error(t, err)

	// either one alone, or neither, is fine
	gt.R1(iocs.Create(ctx, usecase.IOCInput{
		Type: "domain", Value: "c2.example", MalwareID: mal.ID.String(),
	})).NoError(t)
	gt.R1(iocs.Create(ctx, usecase.IOCInput{
		Type: "url", Value: "http://bait.example", PhishID: ph.ID.String(),
	})).NoError(t)
	gt.R1(iocs.Create(ctx, usecase.IOCInput{
		Type: "ip", Value: "192.0.2.1", Confidence: "70",
	})).NoError(t)
}

func TestExporter(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	events := usecase.NewEvent(repo)
	gt.R1(events.Create(ctx, usecase.EventInput{Title: "exported"})).NoError(t)

	doc := gt.R1(usecase.NewExporter(repo).Export(ctx)).NoError(t)
	gt.True(t, doc.ExportID != "")
	gt.A(t, doc.Events).Length(1)
	gt.A(t, doc.Malware).Length(0)
}
