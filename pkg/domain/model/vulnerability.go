package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// Vulnerability is declared in the schema and kept minimal: APT profiles
// may link to it, and it is listed on the APT detail page.
type Vulnerability struct {
	ID          types.VulnerabilityID
	CVE         string
	Title       string
	Description string
	CreatedAt   time.Time
}

// NewVulnerability creates a new Vulnerability record
func NewVulnerability(cve, title string) (*Vulnerability, error) {
	if cve == "" && title == "" {
		return nil, goerr.New("vulnerability requires a CVE or a title")
	}
	return &Vulnerability{
		CVE:       cve,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Cluster is an activity cluster, declared in the schema and minimally used
type Cluster struct {
	ID          types.ClusterID
	Name        string
	Description string
	CreatedAt   time.Time
}

// NewCluster creates a new Cluster record
func NewCluster(name string) (*Cluster, error) {
	if name == "" {
		return nil, goerr.New("cluster name is required")
	}
	return &Cluster{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}, nil
}
