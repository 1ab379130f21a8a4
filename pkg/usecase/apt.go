package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// APTInput carries raw form values for a threat-actor profile
type APTInput struct {
	Name        string
	Aliases     string
	Description string
	Tactics     string
	Techniques  string
}

// APT implements threat-actor profile workflows
type APT struct {
	repo interfaces.Repository
}

// NewAPT creates the APT usecase
func NewAPT(repo interfaces.Repository) *APT {
	return &APT{repo: repo}
}

func (uc *APT) apply(apt *model.APT, input APTInput) {
	apt.Name = input.Name
	apt.Aliases = input.Aliases
	apt.Description = input.Description
	apt.Tactics = input.Tactics
	apt.Techniques = input.Techniques
}

// Create validates the input and stores a new profile
func (uc *APT) Create(ctx context.Context, input APTInput) (*model.APT, error) {
	apt, err := model.NewAPT(input.Name)
	if err != nil {
		return nil, err
	}
	uc.apply(apt, input)
	if err := uc.repo.CreateAPT(ctx, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

// Update applies the input to an existing profile
func (uc *APT) Update(ctx context.Context, id types.APTID, input APTInput) (*model.APT, error) {
	apt, err := uc.repo.GetAPT(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name == "" {
		input.Name = apt.Name
	}
	uc.apply(apt, input)
	if err := uc.repo.UpdateAPT(ctx, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

// Get returns one profile
func (uc *APT) Get(ctx context.Context, id types.APTID) (*model.APT, error) {
	return uc.repo.GetAPT(ctx, id)
}

// List returns all profiles sorted by name
func (uc *APT) List(ctx context.Context) ([]*model.APT, error) {
	return uc.repo.ListAPTs(ctx)
}

// Links returns every entity associated with the profile
func (uc *APT) Links(ctx context.Context, id types.APTID) (*model.APTLinks, error) {
	return uc.repo.GetAPTLinks(ctx, id)
}

// Delete removes the profile and its association rows; linked entities
// themselves are untouched.
func (uc *APT) Delete(ctx context.Context, id types.APTID) error {
	return uc.repo.DeleteAPT(ctx, id)
}

// Link association classes accepted in link/unlink posts
const (
	LinkEvent         = "event"
	LinkMalware       = "malware"
	LinkPhish         = "phish"
	LinkIOC           = "ioc"
	LinkVulnerability = "vulnerability"
)

// Link attaches a target entity to the profile. Linking an already-linked
// pair is a no-op.
func (uc *APT) Link(ctx context.Context, id types.APTID, class, rawTarget string) error {
	target, err := parseTargetID(class, rawTarget)
	if err != nil {
		return err
	}
	switch class {
	case LinkEvent:
		return uc.repo.LinkAPTEvent(ctx, id, types.EventID(target))
	case LinkMalware:
		return uc.repo.LinkAPTMalware(ctx, id, types.MalwareID(target))
	case LinkPhish:
		return uc.repo.LinkAPTPhish(ctx, id, types.PhishID(target))
	case LinkIOC:
		return uc.repo.LinkAPTIOC(ctx, id, types.IOCID(target))
	case LinkVulnerability:
		return uc.repo.LinkAPTVulnerability(ctx, id, types.VulnerabilityID(target))
	default:
		return goerr.New("unknown link class", goerr.V("class", class))
	}
}

// Unlink detaches a target entity from the profile. Unlinking a missing
// pair is a no-op.
func (uc *APT) Unlink(ctx context.Context, id types.APTID, class, rawTarget string) error {
	target, err := parseTargetID(class, rawTarget)
	if err != nil {
		return err
	}
	switch class {
	case LinkEvent:
		return uc.repo.UnlinkAPTEvent(ctx, id, types.EventID(target))
	case LinkMalware:
		return uc.repo.UnlinkAPTMalware(ctx, id, types.MalwareID(target))
	case LinkPhish:
		return uc.repo.UnlinkAPTPhish(ctx, id, types.PhishID(target))
	case LinkIOC:
		return uc.repo.UnlinkAPTIOC(ctx, id, types.IOCID(target))
	case LinkVulnerability:
		return uc.repo.UnlinkAPTVulnerability(ctx, id, types.VulnerabilityID(target))
	default:
		return goerr.New("unknown link class", goerr.V("class", class))
	}
}

func parseTargetID(class, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, goerr.New("invalid link target id",
			goerr.V("class", class), goerr.V("target", raw))
	}
	return n, nil
}
