package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Audience selects which generated report document to render
type Audience string

const (
	AudienceExec  Audience = "exec"
	AudienceIT    Audience = "it"
	AudienceUsers Audience = "users"
)

// String returns the string representation of the audience
func (a Audience) String() string {
	return string(a)
}

// IsValid checks if the audience is valid
func (a Audience) IsValid() bool {
	switch a {
	case AudienceExec, AudienceIT, AudienceUsers:
		return true
	default:
		return false
	}
}

// ParseAudience validates a raw audience string
func ParseAudience(raw string) (Audience, error) {
	a := Audience(strings.ToLower(strings.TrimSpace(raw)))
	if !a.IsValid() {
		return "", goerr.New("invalid report audience: must be one of exec, it, users",
			goerr.V("audience", raw))
	}
	return a, nil
}

// PeriodType classifies the reporting period
type PeriodType string

const (
	PeriodMonth   PeriodType = "month"
	PeriodQuarter PeriodType = "quarter"
	PeriodYear    PeriodType = "year"
)

// String returns the string representation of the period type
func (p PeriodType) String() string {
	return string(p)
}

// IsValid checks if the period type is valid
func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodMonth, PeriodQuarter, PeriodYear:
		return true
	default:
		return false
	}
}

// ParsePeriodType validates a raw period type string
func ParsePeriodType(raw string) (PeriodType, error) {
	p := PeriodType(strings.ToLower(strings.TrimSpace(raw)))
	if !p.IsValid() {
		return "", goerr.New("invalid period type: must be one of month, quarter, year",
			goerr.V("periodType", raw))
	}
	return p, nil
}
