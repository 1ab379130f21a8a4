package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// EventType classifies a security event
type EventType string

const (
	EventTypePhishing        EventType = "phishing"
	EventTypeMalware         EventType = "malware"
	EventTypeBreach          EventType = "breach"
	EventTypeInsiderThreat   EventType = "insider_threat"
	EventTypeVulnerability   EventType = "vulnerability"
	EventTypePolicyViolation EventType = "policy_violation"
	EventTypeOther           EventType = "other"
)

// String returns the string representation of the type
func (t EventType) String() string {
	return string(t)
}

// Label returns the human readable form (e.g. "Insider Threat")
func (t EventType) Label() string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// IsValid checks if the type is valid
func (t EventType) IsValid() bool {
	switch t {
	case EventTypePhishing, EventTypeMalware, EventTypeBreach,
		EventTypeInsiderThreat, EventTypeVulnerability,
		EventTypePolicyViolation, EventTypeOther:
		return true
	default:
		return false
	}
}

// AllEventTypes returns every event type in display order
func AllEventTypes() []EventType {
	return []EventType{
		EventTypePhishing,
		EventTypeMalware,
		EventTypeBreach,
		EventTypeInsiderThreat,
		EventTypeVulnerability,
		EventTypePolicyViolation,
		EventTypeOther,
	}
}

// ParseEventType validates a raw event type string
func ParseEventType(raw string) (EventType, error) {
	t := EventType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.IsValid() {
		return "", goerr.New("invalid event type", goerr.V("type", raw))
	}
	return t, nil
}
