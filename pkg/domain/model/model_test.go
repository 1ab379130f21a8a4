package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

func TestNewEvent(t *testing.T) {
	t.Run("Valid event creation", func(t *testing.T) {
		event, err := model.NewEvent("suspicious login burst")
		gt.NoError(t, err)
		gt.Equal(t, "suspicious login burst", event.Title)
		gt.Equal(t, types.EventStatusOpen, event.Status)
		gt.True(t, time.Since(event.CreatedAt) < time.Second)
		gt.True(t, time.Since(event.DetectedDate) < time.Second)
	})

	t.Run("Empty title", func(t *testing.T) {
		event, err := model.NewEvent("")
		gt.Error(t, err)
		gt.V(t, event).Nil()
	})
}

func TestEventEffectiveDate(t *testing.T) {
	t.Run("Falls back to CreatedAt", func(t *testing.T) {
		event := gt.R1(model.NewEvent("no explicit date")).NoError(t)
		gt.Equal(t, event.CreatedAt, event.EffectiveDate())
	})

	t.Run("Uses EventDate when set", func(t *testing.T) {
		event := gt.R1(model.NewEvent("dated")).NoError(t)
		d := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
		event.EventDate = &d
		gt.Equal(t, d, event.EffectiveDate())
	})
}

func TestEventTypeLabel(t *testing.T) {
	event := gt.R1(model.NewEvent("untyped")).NoError(t)
	gt.Equal(t, "Other", event.TypeLabel())

	et := types.EventTypeInsiderThreat
	event.Type = &et
	gt.Equal(t, "Insider Threat", event.TypeLabel())
}

func TestNewIOC(t *testing.T) {
	malwareID := types.MalwareID(3)
	phishID := types.PhishID(5)

	t.Run("Linked to malware only", func(t *testing.T) {
		ioc, err := model.NewIOC("hash", "d41d8cd98f00b204e9800998ecf8427e", &malwareID, nil)
		gt.NoError(t, err)
		gt.Equal(t, &malwareID, ioc.MalwareID)
		gt.V(t, ioc.PhishID).Nil()
	})

	t.Run("Standalone is allowed", func(t *testing.T) {
		ioc, err := model.NewIOC("domain", "bad.example.net", nil, nil)
		gt.NoError(t, err)
		gt.V(t, ioc.MalwareID).Nil()
		gt.V(t, ioc.PhishID).Nil()
	})

	t.Run("Both links rejected", func(t *testing.T) {
		ioc, err := model.NewIOC("ip", "203.0.113.7", &malwareID, &phishID)
		gt.Error(t, err)
		gt.V(t, ioc).Nil()
		gt.S(t, err.Error()).Contains("not both")
	})

	t.Run("Missing value rejected", func(t *testing.T) {
		_, err := model.NewIOC("ip", "", nil, nil)
		gt.Error(t, err)
	})

	t.Run("Confidence range", func(t *testing.T) {
		ioc := gt.R1(model.NewIOC("url", "http://bad.example.net/x", nil, nil)).NoError(t)
		gt.NoError(t, ioc.SetConfidence(85))
		gt.Equal(t, 85, *ioc.Confidence)
		gt.Error(t, ioc.SetConfidence(101))
		gt.Error(t, ioc.SetConfidence(-1))
	})
}

func TestPhishSenderDomain(t *testing.T) {
	phish := gt.R1(model.NewPhish("Urgent invoice")).NoError(t)

	phish.Sender = "Billing <billing@Evil.Example.COM"
	gt.Equal(t, "evil.example.com", phish.SenderDomain())

	phish.Sender = "  UnknownSender  "
	gt.Equal(t, "unknownsender", phish.SenderDomain())

	phish.Sender = ""
	gt.Equal(t, "", phish.SenderDomain())
}

func TestNewMitigation(t *testing.T) {
	t.Run("Requires event", func(t *testing.T) {
		_, err := model.NewMitigation("block sender", 0)
		gt.Error(t, err)
	})

	t.Run("Valid", func(t *testing.T) {
		m, err := model.NewMitigation("block sender", 7)
		gt.NoError(t, err)
		gt.Equal(t, types.EventID(7), m.EventID)
	})
}

func TestDefaultReferenceConfig(t *testing.T) {
	cfg, err := model.DefaultReferenceConfig()
	gt.NoError(t, err)
	gt.True(t, len(cfg.Families) >= 20)
	gt.True(t, len(cfg.Categories) >= 15)
	gt.A(t, cfg.Families).Has("Emotet")
	gt.A(t, cfg.Categories).Has("Ransomware")
}
