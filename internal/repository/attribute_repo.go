package repository

import (
	"context"

	"github.com/halvden/oblevel/internal/schema"
	"gorm.io/gorm"
)

// AttributeRepository reads the attribute reference rows.
type AttributeRepository struct {
	db *gorm.DB
}

// NewAttributeRepository creates the repository.
func NewAttributeRepository(db *gorm.DB) *AttributeRepository {
	return &AttributeRepository{db: db}
}

// List returns every attribute in display order.
func (r *AttributeRepository) List(ctx context.Context) ([]schema.Attribute, error) {
	var attrs []schema.Attribute
	err := r.db.WithContext(ctx).Order("id ASC").Find(&attrs).Error
	if err != nil {
		return nil, storagef(err, "list attributes")
	}
	return attrs, nil
}
