package services

import (
	"errors"
	"fmt"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// StoreService resolves public store pages. No credential is required.
type StoreService struct {
	userRepo repositories.UserRepository
}

// NewStoreService creates a new StoreService.
func NewStoreService(userRepo repositories.UserRepository) *StoreService {
	return &StoreService{
		userRepo: userRepo,
	}
}

// ResolveStore maps a username to the public identity of its store. The
// returned info never includes the email or the password hash.
func (s *StoreService) ResolveStore(username string) (*models.StoreInfo, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("store %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve store %q: %w", username, err)
	}

	return &models.StoreInfo{
		Username:         user.Username,
		StoreName:        user.StoreName,
		StoreDescription: user.StoreDescription,
	}, nil
}
