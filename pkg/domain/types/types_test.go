package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

func TestParseEventStatus(t *testing.T) {
	t.Run("Valid statuses", func(t *testing.T) {
		for _, raw := range []string{"open", "in_progress", "resolved"} {
			s, err := types.ParseEventStatus(raw)
			gt.NoError(t, err)
			gt.Equal(t, raw, s.String())
		}
	})

	t.Run("Invalid status", func(t *testing.T) {
		_, err := types.ParseEventStatus("closed")
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("invalid event status")
	})

	t.Run("Active statuses", func(t *testing.T) {
		gt.True(t, types.EventStatusOpen.IsActive())
		gt.True(t, types.EventStatusInProgress.IsActive())
		gt.False(t, types.EventStatusResolved.IsActive())
	})

	t.Run("Labels", func(t *testing.T) {
		gt.Equal(t, "In Progress", types.EventStatusInProgress.Label())
		gt.Equal(t, "Open", types.EventStatusOpen.Label())
	})
}

func TestParseEventType(t *testing.T) {
	t.Run("Valid type with surrounding whitespace", func(t *testing.T) {
		et, err := types.ParseEventType(" Insider_Threat ")
		gt.NoError(t, err)
		gt.Equal(t, types.EventTypeInsiderThreat, et)
	})

	t.Run("Invalid type", func(t *testing.T) {
		_, err := types.ParseEventType("ransom")
		gt.Error(t, err)
	})

	t.Run("Label formatting", func(t *testing.T) {
		gt.Equal(t, "Insider Threat", types.EventTypeInsiderThreat.Label())
		gt.Equal(t, "Policy Violation", types.EventTypePolicyViolation.Label())
		gt.Equal(t, "Other", types.EventTypeOther.Label())
	})

	t.Run("AllEventTypes is complete", func(t *testing.T) {
		gt.A(t, types.AllEventTypes()).Length(7)
	})
}

func TestParseRiskLevel(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		r, err := types.ParseRiskLevel("HIGH")
		gt.NoError(t, err)
		gt.Equal(t, types.RiskLevelHigh, r)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := types.ParseRiskLevel("severe")
		gt.Error(t, err)
	})
}

func TestParseReportParams(t *testing.T) {
	t.Run("Audience", func(t *testing.T) {
		a, err := types.ParseAudience("exec")
		gt.NoError(t, err)
		gt.Equal(t, types.AudienceExec, a)

		_, err = types.ParseAudience("board")
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("invalid report audience")
	})

	t.Run("PeriodType", func(t *testing.T) {
		p, err := types.ParsePeriodType("quarter")
		gt.NoError(t, err)
		gt.Equal(t, types.PeriodQuarter, p)

		_, err = types.ParsePeriodType("week")
		gt.Error(t, err)
	})
}
