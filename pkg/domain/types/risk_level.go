package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// RiskLevel grades a phishing instance
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// String returns the string representation of the risk level
func (r RiskLevel) String() string {
	return string(r)
}

// Label returns the human readable form
func (r RiskLevel) Label() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r)[:1]) + string(r)[1:]
}

// IsValid checks if the risk level is valid
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelCritical:
		return true
	default:
		return false
	}
}

// ParseRiskLevel validates a raw risk level string
func ParseRiskLevel(raw string) (RiskLevel, error) {
	r := RiskLevel(strings.ToLower(strings.TrimSpace(raw)))
	if !r.IsValid() {
		return "", goerr.New("invalid risk level", goerr.V("riskLevel", raw))
	}
	return r, nil
}
