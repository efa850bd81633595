package services

import (
	"errors"
	"fmt"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// ReadScope is the resolved answer to "whose products may this request see".
// It is computed exactly once per request, before any product access.
type ReadScope struct {
	// Owner is the principal whose products are in scope.
	Owner *models.User
	// Public is true when the scope was reached through a username lookup
	// and required no credential.
	Public bool
}

// AccessPolicy decides which principal may read or mutate which product
// records.
type AccessPolicy struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
}

// NewAccessPolicy creates a new AccessPolicy.
func NewAccessPolicy(userRepo repositories.UserRepository, productRepo repositories.ProductRepository) *AccessPolicy {
	return &AccessPolicy{
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

// ResolveReadScope picks exactly one resolution path for a read request.
// A requested username always takes the public path, even when the caller is
// also authenticated as someone else; without a username the caller's own
// principal is the scope; with neither the request is rejected.
func (p *AccessPolicy) ResolveReadScope(principal *models.User, requestedUsername string) (ReadScope, error) {
	if requestedUsername != "" {
		owner, err := p.userRepo.GetByUsername(requestedUsername)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ReadScope{}, fmt.Errorf("user %q: %w", requestedUsername, ErrNotFound)
			}
			return ReadScope{}, fmt.Errorf("failed to resolve username %q: %w", requestedUsername, err)
		}
		return ReadScope{Owner: owner, Public: true}, nil
	}

	if principal != nil {
		return ReadScope{Owner: principal}, nil
	}

	return ReadScope{}, ErrUnauthorized
}

// AuthorizeMutation checks that principal may mutate the product with the
// given id and returns the stored record on success. The existence check
// precedes the ownership check, so an unknown id is always reported as
// ErrNotFound, never masked as ErrForbidden.
func (p *AccessPolicy) AuthorizeMutation(principal *models.User, productID string) (*models.Product, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}

	product, err := p.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load product %s: %w", productID, err)
	}

	if product.OwnerID != principal.ID {
		return nil, ErrForbidden
	}

	return product, nil
}
