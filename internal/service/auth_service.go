package service

import (
	"context"
	"errors"
	"strings"
	"time"

	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/policy"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/pkg/logging"
	"github.com/maheshrc27/contentflow/pkg/utils"
	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	// Login checks the credentials and returns the user with a signed session token.
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

type authService struct {
	cfg *config.Config
	u   repository.UserRepository
	now func() time.Time
	log *zap.Logger
}

func NewAuthService(cfg *config.Config, u repository.UserRepository) AuthService {
	return &authService{
		cfg: cfg,
		u:   u,
		now: time.Now,
		log: logging.WithComponent("auth"),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, isExist, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", persistence("get user", err)
	}
	if !isExist || !utils.CheckPassword(user.Password, password) {
		s.log.Info("login rejected", zap.String("email", email))
		return nil, "", ErrInvalidCredentials
	}
	if !policy.Known(user.Role) {
		s.log.Warn("login with unknown role", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
		return nil, "", ErrForbidden
	}

	now := s.now()
	if err := s.u.TouchLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("could not record last login", zap.String("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLogin = &now
	}

	token, err := utils.GenerateToken(s.cfg.SecretKey, user.ID, s.cfg.TokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
