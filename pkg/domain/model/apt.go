package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// APT represents a tracked threat-actor profile. Aliases, tactics and
// techniques are analyst free text. Associations with other entities are
// managed through explicit link operations on the repository.
type APT struct {
	ID          types.APTID
	Name        string
	Aliases     string
	Description string
	Tactics     string
	Techniques  string
	CreatedAt   time.Time
}

// NewAPT creates a new APT profile
func NewAPT(name string) (*APT, error) {
	if name == "" {
		return nil, goerr.New("apt name is required")
	}
	return &APT{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// APTLinks holds the resolved associations of one APT profile
type APTLinks struct {
	Events          []*Event
	Malware         []*Malware
	Phishing        []*Phish
	IOCs            []*IOC
	Vulnerabilities []*Vulnerability
}
