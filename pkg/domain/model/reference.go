package model

import (
	_ "embed"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/types"
	"gopkg.in/yaml.v3"
)

// MalwareFamily is a lookup row resolved case-insensitively by name
type MalwareFamily struct {
	ID        types.FamilyID
	Name      string
	CreatedAt time.Time
}

// MalwareCategory is a lookup row resolved case-insensitively by name
type MalwareCategory struct {
	ID        types.CategoryID
	Name      string
	CreatedAt time.Time
}

//go:embed reference.yml
var referenceYAML []byte

// ReferenceConfig holds the default reference data seeded at bootstrap
type ReferenceConfig struct {
	Families   []string `yaml:"families"`
	Categories []string `yaml:"categories"`
}

// Validate validates the reference configuration
func (c *ReferenceConfig) Validate() error {
	if len(c.Families) == 0 {
		return goerr.New("at least one default malware family is required")
	}
	if len(c.Categories) == 0 {
		return goerr.New("at least one default malware category is required")
	}
	return nil
}

// DefaultReferenceConfig parses the embedded default reference data
func DefaultReferenceConfig() (*ReferenceConfig, error) {
	var cfg ReferenceConfig
	if err := yaml.Unmarshal(referenceYAML, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse embedded reference data")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
