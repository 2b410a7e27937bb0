package service

import (
	"context"
	"fmt"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/pkg/logging"
	"github.com/maheshrc27/contentflow/pkg/utils"
	"go.uber.org/zap"
)

const maxApiKeys = 5

type ApiKeyService interface {
	Create(ctx context.Context, userID string) (*models.ApiKey, error)
	List(ctx context.Context, userID string) ([]*models.ApiKey, error)
	GetUserID(ctx context.Context, apiKey string) (string, error)
	RemoveAPIKey(ctx context.Context, userID string, keyID int64) error
}

type apiKeyService struct {
	k   repository.ApiKeyRepository
	log *zap.Logger
}

func NewApiKeyService(k repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{
		k:   k,
		log: logging.WithComponent("api-keys"),
	}
}

func (s *apiKeyService) Create(ctx context.Context, userID string) (*models.ApiKey, error) {
	n, err := s.k.CountByUserID(ctx, userID)
	if err != nil {
		return nil, persistence("count api keys", err)
	}
	if n >= maxApiKeys {
		return nil, invalid("apiKey", fmt.Sprintf("only %d API keys can be created", maxApiKeys))
	}

	key, err := utils.GenerateRandomKey(16)
	if err != nil {
		s.log.Error("generate api key", zap.Error(err))
		return nil, fmt.Errorf("generate api key: %w", err)
	}

	apiKey := &models.ApiKey{
		UserID: userID,
		ApiKey: key,
	}
	id, err := s.k.Create(ctx, apiKey)
	if err != nil {
		return nil, persistence("create api key", err)
	}
	apiKey.ID = id
	return apiKey, nil
}

func (s *apiKeyService) GetUserID(ctx context.Context, apiKey string) (string, error) {
	userID, isExist, err := s.k.GetByKey(ctx, apiKey)
	if err != nil {
		return "", persistence("get api key", err)
	}
	if !isExist {
		return "", ErrNotFound
	}
	return userID, nil
}

func (s *apiKeyService) List(ctx context.Context, userID string) ([]*models.ApiKey, error) {
	apiKeys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return nil, persistence("list api keys", err)
	}
	return apiKeys, nil
}

func (s *apiKeyService) RemoveAPIKey(ctx context.Context, userID string, keyID int64) error {
	if keyID <= 0 {
		return invalid("id", "key id is not valid")
	}

	isValid, err := s.k.CheckByUserID(ctx, keyID, userID)
	if err != nil {
		return persistence("check api key", err)
	}
	if !isValid {
		return ErrNotFound
	}

	if err := s.k.Remove(ctx, keyID); err != nil {
		return persistence("remove api key", err)
	}
	s.log.Info("api key removed", zap.String("user_id", userID), zap.Int64("key_id", keyID))
	return nil
}
