package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// IOC represents an indicator of compromise. It may be attached to a
// malware sample or a phishing instance, never both.
type IOC struct {
	ID          types.IOCID
	Type        string
	Value       string
	Description string
	Confidence  *int
	MalwareID   *types.MalwareID
	PhishID     *types.PhishID
	CreatedAt   time.Time
}

// NewIOC creates a new IOC instance. The malware/phish link invariant and
// the confidence range are enforced here.
func NewIOC(iocType, value string, malwareID *types.MalwareID, phishID *types.PhishID) (*IOC, error) {
	if iocType == "" {
		return nil, goerr.New("ioc type is required")
	}
	if value == "" {
		return nil, goerr.New("ioc value is required")
	}
	if malwareID != nil && phishID != nil {
		return nil, goerr.New("ioc may link to malware or phishing, not both",
			goerr.V("malwareID", *malwareID), goerr.V("phishID", *phishID))
	}

	return &IOC{
		Type:      iocType,
		Value:     value,
		MalwareID: malwareID,
		PhishID:   phishID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SetConfidence validates and assigns the 0-100 confidence score
func (i *IOC) SetConfidence(confidence int) error {
	if confidence < 0 || confidence > 100 {
		return goerr.New("ioc confidence must be between 0 and 100",
			goerr.V("confidence", confidence))
	}
	i.Confidence = &confidence
	return nil
}

// EffectiveDate returns CreatedAt; IOCs carry no domain date of their own
func (i *IOC) EffectiveDate() time.Time {
	return i.CreatedAt
}
