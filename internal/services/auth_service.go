package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/token"
)

var (
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "invalid credentials")
	ErrMissingToken       = apperr.New(apperr.KindUnauthorized, "missing authorization header")
)

type AuthService struct {
	accounts AccountStore
	profiles ProfileStore
	tokens   *token.Service
}

func NewAuthService(accounts AccountStore, profiles ProfileStore, tokens *token.Service) *AuthService {
	return &AuthService{accounts: accounts, profiles: profiles, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	account, err := s.accounts.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		if apperr.Is(err, apperr.KindUnavailable) {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.KindBadRequest, err, "failed to create user account: "+err.Error())
	}

	profile := &models.Profile{
		ID:       account.ID,
		Email:    account.Email,
		FullName: req.FullName,
		Role:     models.RoleUser,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	return s.authResponse(profile)
}

// Login authenticates the account and then loads its profile. A missing
// profile after successful authentication is reported as NotFound, not as
// bad credentials.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	account, err := s.accounts.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if apperr.Is(err, apperr.KindUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	profile, err := s.profiles.GetPrivileged(ctx, account.ID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, err, "profile not found for this account")
		}
		return nil, err
	}

	return s.authResponse(profile)
}

// Refresh re-issues a token for the subject and email of a still-valid one.
func (s *AuthService) Refresh(authorization string) (*dto.TokenResponse, error) {
	raw, ok := token.FromHeader(authorization)
	if !ok {
		return nil, ErrMissingToken
	}

	id, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthorized, err, err.Error())
	}

	fresh, err := s.tokens.Issue(id.UserID, id.Email)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: fresh, TokenType: "bearer"}, nil
}

func (s *AuthService) authResponse(p *models.Profile) (*dto.AuthResponse, error) {
	accessToken, err := s.tokens.Issue(p.ID, p.Email)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to issue token")
	}

	return &dto.AuthResponse{
		UserID:      p.ID,
		Email:       p.Email,
		FullName:    p.FullName,
		Role:        p.Role,
		AccessToken: accessToken,
		TokenType:   "bearer",
	}, nil
}
