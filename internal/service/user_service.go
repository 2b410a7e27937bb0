package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/policy"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/transfer"
	"github.com/maheshrc27/contentflow/pkg/logging"
	"github.com/maheshrc27/contentflow/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type UserService interface {
	GetUserInfo(ctx context.Context, id string) (*models.User, error)
	ListTeam(ctx context.Context, actor models.Actor) ([]*models.User, error)
	CreateMember(ctx context.Context, req transfer.CreateUserRequest, actor models.Actor) (*models.User, error)
	UpdateMember(ctx context.Context, id string, req transfer.UpdateUserRequest, actor models.Actor) (*models.User, error)
	RemoveUser(ctx context.Context, id string, actor models.Actor) error
}

type userService struct {
	u   repository.UserRepository
	log *zap.Logger
}

func NewUserService(u repository.UserRepository) UserService {
	return &userService{
		u:   u,
		log: logging.WithComponent("team"),
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id string) (*models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, persistence("get user", err)
	}
	if !isExist {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *userService) ListTeam(ctx context.Context, actor models.Actor) ([]*models.User, error) {
	if !policy.CanManageTeam(actor.Role) {
		return nil, ErrForbidden
	}
	users, err := s.u.List(ctx)
	if err != nil {
		return nil, persistence("list users", err)
	}
	return users, nil
}

// checkMember validates the fields every stored user must satisfy.
func checkMember(user *models.User) error {
	if strings.TrimSpace(user.Name) == "" {
		return invalid("name", "name is required")
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return invalid("email", "email is not valid")
	}
	if !policy.Known(user.Role) {
		return invalid("role", "unknown role")
	}
	if policy.IsInternal(user.Role) {
		user.ClientID = nil
	} else if user.ClientID == nil || strings.TrimSpace(*user.ClientID) == "" {
		return invalid("clientId", "client users must belong to a client")
	}
	return nil
}

func (s *userService) CreateMember(ctx context.Context, req transfer.CreateUserRequest, actor models.Actor) (*models.User, error) {
	if !policy.CanManageTeam(actor.Role) {
		return nil, ErrForbidden
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Role:     req.Role,
		ClientID: req.ClientID,
	}
	if err := checkMember(user); err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLength {
		return nil, invalid("password", "password must be at least 8 characters")
	}

	_, taken, err := s.u.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, persistence("get user by email", err)
	}
	if taken {
		return nil, invalid("email", "email is already in use")
	}

	if user.Password, err = utils.HashPassword(req.Password); err != nil {
		return nil, err
	}
	if user.ID, err = gonanoid.New(); err != nil {
		return nil, err
	}
	if err := s.u.Create(ctx, user); err != nil {
		return nil, persistence("create user", err)
	}

	s.log.Info("member created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)), zap.String("by", actor.Name))
	return user, nil
}

func (s *userService) UpdateMember(ctx context.Context, id string, req transfer.UpdateUserRequest, actor models.Actor) (*models.User, error) {
	if !policy.CanManageTeam(actor.Role) {
		return nil, ErrForbidden
	}

	user, err := s.GetUserInfo(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil && !strings.EqualFold(*req.Email, user.Email) {
		email := strings.TrimSpace(*req.Email)
		_, taken, err := s.u.GetByEmail(ctx, email)
		if err != nil {
			return nil, persistence("get user by email", err)
		}
		if taken {
			return nil, invalid("email", "email is already in use")
		}
		user.Email = email
	}
	if req.Role != nil {
		if id == actor.ID && !policy.CanManageTeam(*req.Role) {
			return nil, invalid("role", "you cannot remove your own team access")
		}
		user.Role = *req.Role
	}
	if req.ClientID != nil {
		user.ClientID = req.ClientID
	}
	if err := checkMember(user); err != nil {
		return nil, err
	}
	if req.Password != "" {
		if len(req.Password) < minPasswordLength {
			return nil, invalid("password", "password must be at least 8 characters")
		}
		if user.Password, err = utils.HashPassword(req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.u.Update(ctx, user); err != nil {
		return nil, persistence("update user", err)
	}
	return user, nil
}

func (s *userService) RemoveUser(ctx context.Context, id string, actor models.Actor) error {
	if !policy.CanManageTeam(actor.Role) {
		return ErrForbidden
	}
	if id == actor.ID {
		return invalid("id", "you cannot remove yourself")
	}
	if err := s.u.Remove(ctx, id); err != nil {
		return persistence("remove user", err)
	}
	s.log.Info("member removed", zap.String("user_id", id), zap.String("by", actor.Name))
	return nil
}
