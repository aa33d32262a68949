package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/nutrikeeper/internal/common"
	"github.com/dmitrijs2005/nutrikeeper/internal/logging"
	"github.com/dmitrijs2005/nutrikeeper/internal/models"
	"github.com/dmitrijs2005/nutrikeeper/internal/repositories/settings"
)

// ProfileKey is the settings key holding the profile document.
const ProfileKey = "profile"

// ProfileService loads and persists the user profile read by the filter
// engine.
type ProfileService struct {
	mu   sync.Mutex
	repo settings.Repository
	log  logging.Logger
}

func NewProfileService(repo settings.Repository, log logging.Logger) *ProfileService {
	if log == nil {
		log = logging.Discard()
	}
	return &ProfileService{repo: repo, log: log.With("component", "profile")}
}

// Load returns the stored profile. The first call stores and returns the
// defaults. Fields missing from an older document keep their default value.
func (s *ProfileService) Load(ctx context.Context) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *ProfileService) load(ctx context.Context) (models.UserProfile, error) {
	p := models.DefaultProfile()
	ok, err := settings.LoadJSON(ctx, s.repo, ProfileKey, &p)
	if err != nil {
		return models.UserProfile{}, common.NewStorageError("load profile", err)
	}
	if !ok {
		if err := settings.SaveJSON(ctx, s.repo, ProfileKey, p); err != nil {
			return models.UserProfile{}, common.NewStorageError("save profile", err)
		}
		s.log.Debug(ctx, "default profile created")
		return p, nil
	}

	p.Allergens = models.NormalizeCodes(p.Allergens)
	if p.Allergens == nil {
		p.Allergens = []string{}
	}
	if err := p.Validate(); err != nil {
		s.log.Warn(ctx, "stored profile out of range, using default threshold", "error", err)
		p.SugarThreshold = models.DefaultSugarThreshold
	}
	return p, nil
}

// Update applies patch to the stored profile and persists the result. An
// out-of-range threshold is rejected with a ValidationError and nothing is
// written.
func (s *ProfileService) Update(ctx context.Context, patch models.ProfilePatch) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.load(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	next, err := cur.Apply(patch)
	if err != nil {
		return cur, common.NewValidationError("profile", err.Error())
	}
	if err := settings.SaveJSON(ctx, s.repo, ProfileKey, next); err != nil {
		return cur, common.NewStorageError("save profile", err)
	}
	s.log.Info(ctx, "profile updated")
	return next, nil
}

// Reset drops the stored profile; the defaults are recreated and persisted
// by the load that follows.
func (s *ProfileService) Reset(ctx context.Context) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, ProfileKey); err != nil {
		return models.UserProfile{}, common.NewStorageError("reset profile", err)
	}
	p, err := s.load(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	s.log.Info(ctx, "profile reset")
	return p, nil
}
