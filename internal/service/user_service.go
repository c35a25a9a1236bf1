package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/repository"
)

// RegisterUser carries the demographic data collected by the signup flow.
type RegisterUser struct {
	WhatsAppNumber string
	FullName       string
	Age            int
	Gender         model.Gender
	Passport       string
}

// UserStats aggregates user counts per review state for the admin API.
type UserStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Banned   int `json:"banned"`
}

// UserService owns user registration and review-state transitions,
// including the rejection-count/ban rule.
type UserService struct {
	users    UserStore
	sessions SessionStore
	log      zerolog.Logger
}

// NewUserService wires a UserService.
func NewUserService(users UserStore, sessions SessionStore, log zerolog.Logger) *UserService {
	return &UserService{users: users, sessions: sessions, log: log}
}

// Register creates a new user in the PENDING state from signup data.
func (s *UserService) Register(ctx context.Context, in RegisterUser) (model.User, error) {
	u := model.User{
		WhatsAppNumber: in.WhatsAppNumber,
		FullName:       in.FullName,
		Age:            in.Age,
		Gender:         in.Gender,
		Passport:       in.Passport,
		Status:         model.UserPending,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return model.User{}, err
	}
	s.log.Info().Str("user_id", u.ID).Str("whatsapp_number", u.WhatsAppNumber).Msg("user registered")
	return u, nil
}

// FindByID fetches a user by id.
func (s *UserService) FindByID(ctx context.Context, id string) (model.User, error) {
	return s.users.GetByID(ctx, id)
}

// FindByWhatsAppNumber fetches a user by its messaging-platform number.
func (s *UserService) FindByWhatsAppNumber(ctx context.Context, number string) (model.User, error) {
	return s.users.GetByWhatsAppNumber(ctx, number)
}

// IsReturningUser reports whether the sender has registered before.
func (s *UserService) IsReturningUser(ctx context.Context, number string) (bool, error) {
	_, err := s.users.GetByWhatsAppNumber(ctx, number)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateStatus applies an admin review decision. A REJECTED decision
// increments the rejection count; when the count reaches the ban threshold
// the user becomes BANNED instead, irreversibly. Other decisions set the
// status as given.
func (s *UserService) UpdateStatus(ctx context.Context, id string, status model.UserStatus, adminNotes *string) (model.User, error) {
	if !model.ValidUserStatus(status) {
		return model.User{}, ErrInvalidStatus
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	rejectionCount := u.RejectionCount
	isBanned := u.IsBanned
	if status == model.UserRejected {
		rejectionCount++
		if rejectionCount >= model.BanThreshold {
			isBanned = true
			status = model.UserBanned
		}
	}

	if err := s.users.SetStatus(ctx, id, status, rejectionCount, isBanned, adminNotes); err != nil {
		return model.User{}, err
	}
	s.log.Info().
		Str("user_id", id).
		Str("status", string(status)).
		Int("rejection_count", rejectionCount).
		Msg("user status updated")
	return s.users.GetByID(ctx, id)
}

// HasOngoingSession reports whether the user has an IN_PROGRESS session.
func (s *UserService) HasOngoingSession(ctx context.Context, userID string) (bool, error) {
	_, err := s.sessions.GetActiveByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CanAppeal reports whether the user may open an appeal: rejected and not
// yet banned.
func (s *UserService) CanAppeal(ctx context.Context, userID string) (bool, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.Status == model.UserRejected && !u.IsBanned, nil
}

// ListPending returns users awaiting admin review, oldest first.
func (s *UserService) ListPending(ctx context.Context) ([]model.User, error) {
	return s.users.ListByStatus(ctx, model.UserPending)
}

// ListAll returns every registered user.
func (s *UserService) ListAll(ctx context.Context) ([]model.User, error) {
	return s.users.ListAll(ctx)
}

// Stats aggregates user counts per review state.
func (s *UserService) Stats(ctx context.Context) (UserStats, error) {
	counts, err := s.users.CountByStatus(ctx)
	if err != nil {
		return UserStats{}, err
	}
	st := UserStats{
		Pending:  counts[model.UserPending],
		Accepted: counts[model.UserAccepted],
		Rejected: counts[model.UserRejected],
		Banned:   counts[model.UserBanned],
	}
	st.Total = st.Pending + st.Accepted + st.Rejected + st.Banned
	return st, nil
}
