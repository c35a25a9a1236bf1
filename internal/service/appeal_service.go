package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
)

// AppealStats aggregates appeal counts per review state for the admin API.
type AppealStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// AppealService owns the appeal lifecycle: creation under the
// one-pending-appeal rule and admin review decisions.
type AppealService struct {
	appeals AppealStore
	users   UserStore
	log     zerolog.Logger
}

// NewAppealService wires an AppealService.
func NewAppealService(appeals AppealStore, users UserStore, log zerolog.Logger) *AppealService {
	return &AppealService{appeals: appeals, users: users, log: log}
}

// Create opens a PENDING appeal for a user. A user holding a PENDING appeal
// cannot open another; the rule is enforced by this pre-check, not by a
// schema constraint.
func (s *AppealService) Create(ctx context.Context, userID, reason string) (model.Appeal, error) {
	pending, err := s.appeals.HasPending(ctx, userID)
	if err != nil {
		return model.Appeal{}, err
	}
	if pending {
		return model.Appeal{}, ErrPendingAppealExists
	}
	a := model.Appeal{UserID: userID, Reason: reason, Status: model.AppealPending}
	if err := s.appeals.Create(ctx, &a); err != nil {
		return model.Appeal{}, err
	}
	s.log.Info().Str("appeal_id", a.ID).Str("user_id", userID).Msg("appeal created")
	return a, nil
}

// FindByID fetches an appeal by id.
func (s *AppealService) FindByID(ctx context.Context, id string) (model.Appeal, error) {
	return s.appeals.GetByID(ctx, id)
}

// UpdateStatus applies an admin review decision to a PENDING appeal.
// Accepting an appeal resets the user to PENDING for re-review; it does not
// accept the user directly.
func (s *AppealService) UpdateStatus(ctx context.Context, id string, status model.AppealStatus, adminNotes *string) (model.Appeal, error) {
	if !model.ValidAppealStatus(status) {
		return model.Appeal{}, ErrInvalidStatus
	}
	a, err := s.appeals.GetByID(ctx, id)
	if err != nil {
		return model.Appeal{}, err
	}
	if a.Status != model.AppealPending {
		return model.Appeal{}, ErrAppealProcessed
	}
	if err := s.appeals.SetStatus(ctx, id, status, adminNotes); err != nil {
		return model.Appeal{}, err
	}
	if status == model.AppealAccepted {
		u, err := s.users.GetByID(ctx, a.UserID)
		if err != nil {
			return model.Appeal{}, err
		}
		// Back into the review queue, rejection history untouched.
		if err := s.users.SetStatus(ctx, a.UserID, model.UserPending, u.RejectionCount, u.IsBanned, nil); err != nil {
			return model.Appeal{}, err
		}
	}
	s.log.Info().Str("appeal_id", id).Str("status", string(status)).Msg("appeal status updated")
	return s.appeals.GetByID(ctx, id)
}

// HasPending reports whether the user currently holds a PENDING appeal.
func (s *AppealService) HasPending(ctx context.Context, userID string) (bool, error) {
	return s.appeals.HasPending(ctx, userID)
}

// ListPending returns appeals awaiting review, oldest first.
func (s *AppealService) ListPending(ctx context.Context) ([]model.Appeal, error) {
	return s.appeals.ListByStatus(ctx, model.AppealPending)
}

// ListAll returns every appeal.
func (s *AppealService) ListAll(ctx context.Context) ([]model.Appeal, error) {
	return s.appeals.ListAll(ctx)
}

// Stats aggregates appeal counts per review state.
func (s *AppealService) Stats(ctx context.Context) (AppealStats, error) {
	counts, err := s.appeals.CountByStatus(ctx)
	if err != nil {
		return AppealStats{}, err
	}
	st := AppealStats{
		Pending:  counts[model.AppealPending],
		Accepted: counts[model.AppealAccepted],
		Rejected: counts[model.AppealRejected],
	}
	st.Total = st.Pending + st.Accepted + st.Rejected
	return st, nil
}
