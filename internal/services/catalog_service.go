package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"lapak/internal/models"
	"lapak/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// EventPublisher publishes catalog events to a message broker. The RabbitMQ
// client in pkg/rabbitmq satisfies it.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ProductDraft is the validated input for creating a product. Price is a
// pointer so a missing price is distinguishable from an explicit zero.
type ProductDraft struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Image       string   `json:"image" validate:"required"`
	Description string   `json:"description" validate:"omitempty,max=500"`
}

// ProductPatch is a partial update. Only non-nil fields are applied; there is
// deliberately no owner field.
type ProductPatch struct {
	Name        *string  `json:"name" validate:"omitnil,min=1,max=100"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0"`
	Image       *string  `json:"image" validate:"omitnil,min=1"`
	Description *string  `json:"description" validate:"omitnil,max=500"`
}

// CatalogService orchestrates product CRUD. Every operation consults the
// access policy before touching the record store.
type CatalogService struct {
	productRepo repositories.ProductRepository
	policy      *AccessPolicy
	publisher   EventPublisher
	validate    *validator.Validate
}

// NewCatalogService creates a new CatalogService. publisher may be nil, in
// which case catalog events are skipped.
func NewCatalogService(productRepo repositories.ProductRepository, policy *AccessPolicy, publisher EventPublisher) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		policy:      policy,
		publisher:   publisher,
		validate:    validator.New(),
	}
}

// ListProducts returns all products visible to the request: the products of
// the user named by requestedUsername (public path, no credential needed), or
// the caller's own products. Each product carries its owner summary.
func (s *CatalogService) ListProducts(principal *models.User, requestedUsername string) ([]models.ProductWithOwner, error) {
	scope, err := s.policy.ResolveReadScope(principal, requestedUsername)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.GetByOwner(scope.Owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	owner := scope.Owner.Summary()
	annotated := make([]models.ProductWithOwner, 0, len(products))
	for _, p := range products {
		annotated = append(annotated, models.ProductWithOwner{Product: p, Owner: owner})
	}
	return annotated, nil
}

// CreateProduct validates the draft and persists it owned by principal.
func (s *CatalogService) CreateProduct(principal *models.User, draft ProductDraft) (*models.ProductWithOwner, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}

	if err := s.validate.Struct(draft); err != nil {
		return nil, validationError(err)
	}

	product := &models.Product{
		Name:        draft.Name,
		Price:       *draft.Price,
		Image:       draft.Image,
		Description: draft.Description,
		OwnerID:     principal.ID,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.publishEvent("product.created", product)
	return &models.ProductWithOwner{Product: *product, Owner: principal.Summary()}, nil
}

// UpdateProduct applies a partial update to a product owned by principal.
// Fields absent from the patch keep their stored values; the owner is never
// changed.
func (s *CatalogService) UpdateProduct(principal *models.User, id string, patch ProductPatch) (*models.ProductWithOwner, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, validationError(err)
	}

	product, err := s.policy.AuthorizeMutation(principal, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Image != nil {
		product.Image = *patch.Image
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}

	if err := s.productRepo.Update(product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Deleted between authorize and update by a concurrent request.
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.publishEvent("product.updated", product)
	return &models.ProductWithOwner{Product: *product, Owner: principal.Summary()}, nil
}

// DeleteProduct permanently removes a product owned by principal. A second
// delete of the same id reports ErrNotFound.
func (s *CatalogService) DeleteProduct(principal *models.User, id string) error {
	product, err := s.policy.AuthorizeMutation(principal, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.publishEvent("product.deleted", product)
	return nil
}

// publishEvent emits a catalog event. Publish failures are logged and
// swallowed; the mutation has already been persisted.
func (s *CatalogService) publishEvent(event string, product *models.Product) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"event":      event,
		"product_id": product.ID,
		"owner_id":   product.OwnerID,
		"name":       product.Name,
		"price":      product.Price,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for product %s: %v", event, product.ID, err)
		return
	}

	if err := s.publisher.Publish("", "catalog_events", body); err != nil {
		log.Printf("Warning: failed to publish %s event for product %s: %v", event, product.ID, err)
	}
}

// validationError flattens validator output into a single ErrValidation
// naming the failing fields.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, fmt.Sprintf("field '%s' failed on the '%s' tag", strings.ToLower(e.Field()), e.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, "; "))
}
