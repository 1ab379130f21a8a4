package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// Params selects what to generate: the audience shapes the document, the
// period type and period string scope the data window.
type Params struct {
	Audience   types.Audience
	PeriodType types.PeriodType
	Period     string
}

// ParseParams validates raw request values before any query runs
func ParseParams(audience, periodType, period string) (*Params, error) {
	a, err := types.ParseAudience(audience)
	if err != nil {
		return nil, err
	}
	pt, err := types.ParsePeriodType(periodType)
	if err != nil {
		return nil, err
	}
	if period == "" {
		return nil, goerr.New("report period is required")
	}
	return &Params{Audience: a, PeriodType: pt, Period: period}, nil
}

// Window resolves the period string into a half-open date window.
// Accepted forms: month "2025-06", quarter "Q2 2025", year "2025".
func (p *Params) Window() (model.Window, error) {
	switch p.PeriodType {
	case types.PeriodMonth:
		start, err := time.ParseInLocation("2006-01", p.Period, time.UTC)
		if err != nil {
			return model.Window{}, goerr.New("invalid month period: expected YYYY-MM",
				goerr.V("period", p.Period))
		}
		return model.Window{Start: start, End: start.AddDate(0, 1, 0)}, nil

	case types.PeriodQuarter:
		var quarter, year int
		if _, err := fmt.Sscanf(p.Period, "Q%d %d", &quarter, &year); err != nil || quarter < 1 || quarter > 4 {
			return model.Window{}, goerr.New("invalid quarter period: expected Qn YYYY",
				goerr.V("period", p.Period))
		}
		start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		// AddDate carries Q4 into January of the next year
		return model.Window{Start: start, End: start.AddDate(0, 3, 0)}, nil

	case types.PeriodYear:
		year, err := strconv.Atoi(p.Period)
		if err != nil || year < 1 {
			return model.Window{}, goerr.New("invalid year period: expected YYYY",
				goerr.V("period", p.Period))
		}
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return model.Window{Start: start, End: start.AddDate(1, 0, 0)}, nil

	default:
		return model.Window{}, goerr.New("unknown period type",
			goerr.V("periodType", p.PeriodType))
	}
}
