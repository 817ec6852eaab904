// internal/app/lifecycle/service.go

// Package lifecycle is the operation layer over the stores. Each method
// is one user-facing operation: it loads the records involved, applies
// the policy packages, performs the writes in the agreed order, and
// translates everything into fault errors and view structs the feature
// handlers can return as-is.
package lifecycle

import (
	"strings"
	"time"

	"github.com/seeyou-app/seeyou/internal/app/store"
	"github.com/seeyou-app/seeyou/internal/app/system/htmlsanitize"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.uber.org/zap"
)

// Service executes activity, membership, and chat operations.
type Service struct {
	Stores store.Stores
	Log    *zap.Logger

	now func() time.Time
}

// New builds a Service. A nil logger is replaced with a no-op.
func New(stores store.Stores, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Stores: stores,
		Log:    logger,
		now:    time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// ActivityInput is the host-supplied portion of a new or edited
// activity.
type ActivityInput struct {
	Title           string
	Description     string
	ImageURL        string
	MaxParticipants int
}

// clean strips markup and whitespace from the text fields, then checks
// the field limits. MaxParticipants falls back to the default when the
// caller sends zero.
func (in ActivityInput) clean() (ActivityInput, error) {
	in.Title = htmlsanitize.CleanField(in.Title)
	in.Description = htmlsanitize.CleanField(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	if in.Title == "" {
		return in, fault.Validationf("title", "is required")
	}
	if len(in.Title) > models.TitleMaxLen {
		return in, fault.Validationf("title", "must be at most %d characters", models.TitleMaxLen)
	}
	if len(in.Description) > models.DescriptionMaxLen {
		return in, fault.Validationf("description", "must be at most %d characters", models.DescriptionMaxLen)
	}
	if in.MaxParticipants < 0 {
		return in, fault.Validationf("max_participants", "must not be negative")
	}
	if in.MaxParticipants == 0 {
		in.MaxParticipants = models.DefaultMaxParticipants
	}
	return in, nil
}
