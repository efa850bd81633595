package repositories

import "lapak/internal/models"

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetByOwner(ownerID string) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
