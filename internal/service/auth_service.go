package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/repository"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/utils"
)

// AuthService verifies admin credentials and issues access tokens for the
// admin API.
type AuthService struct {
	admins    AdminStore
	jwtSecret string
	ttlMin    int
	log       zerolog.Logger
}

// NewAuthService wires an AuthService.
func NewAuthService(admins AdminStore, jwtSecret string, ttlMin int, log zerolog.Logger) *AuthService {
	return &AuthService{admins: admins, jwtSecret: jwtSecret, ttlMin: ttlMin, log: log}
}

// Login checks the email/password pair against the stored bcrypt hash and
// returns a signed access token. Unknown emails and wrong passwords both
// yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (utils.AccessToken, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.AccessToken{}, ErrInvalidCredentials
	}
	if err != nil {
		return utils.AccessToken{}, err
	}
	if !utils.CheckPassword(admin.PasswordHash, password) {
		return utils.AccessToken{}, ErrInvalidCredentials
	}
	tok, err := utils.NewAccessToken(s.jwtSecret, admin.ID, s.ttlMin)
	if err != nil {
		return utils.AccessToken{}, err
	}
	s.log.Info().Str("admin_id", admin.ID).Msg("admin logged in")
	return tok, nil
}
