package store

import (
	"context"
	"fmt"
	"strings"

	"finance_tracker/internal/apperr"
	"finance_tracker/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgCategoryNotFound = "Category not found"
	maxCategoryName     = 100
)

// CategoryStore is the global category registry
type CategoryStore struct {
	db *gorm.DB
}

// NewCategoryStore creates a CategoryStore
func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns all categories ordered by name
func (s *CategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := s.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Get returns a single category
func (s *CategoryStore) Get(ctx context.Context, id uint) (*domain.Category, error) {
	var category domain.Category
	err := s.db.WithContext(ctx).First(&category, id).Error
	if isNotFound(err) {
		return nil, apperr.NotFound(msgCategoryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

// Create adds a category, applying the default color and icon
func (s *CategoryStore) Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	name, err := validCategoryName(in.Name)
	if err != nil {
		return nil, err
	}
	category := &domain.Category{
		Name:        name,
		Description: in.Description,
		Color:       orDefault(in.Color, domain.DefaultCategoryColor),
		Icon:        orDefault(in.Icon, domain.DefaultCategoryIcon),
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperr.Duplicate("Category with this name already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// Update applies a partial patch to a category
func (s *CategoryStore) Update(ctx context.Context, id uint, patch domain.CategoryPatch) (*domain.Category, error) {
	if patch.Empty() {
		return nil, apperr.Validation("No fields to update")
	}
	updates := map[string]any{}
	if patch.Name != nil {
		name, err := validCategoryName(*patch.Name)
		if err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Color != nil {
		updates["color"] = orDefault(*patch.Color, domain.DefaultCategoryColor)
	}
	if patch.Icon != nil {
		updates["icon"] = orDefault(*patch.Icon, domain.DefaultCategoryIcon)
	}

	var category domain.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			if isNotFound(err) {
				return apperr.NotFound(msgCategoryNotFound)
			}
			return err
		}
		if err := tx.Model(&category).Updates(updates).Error; err != nil {
			if isDuplicate(err) {
				return apperr.Duplicate("Category name already exists")
			}
			return err
		}
		return tx.First(&category, id).Error
	})
	if err != nil {
		return nil, wrapInternal("update category", err)
	}
	return &category, nil
}

// Delete removes a category. Referencing transactions keep existing with category_id set to NULL.
func (s *CategoryStore) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category domain.Category
		if err := tx.Select("id").First(&category, id).Error; err != nil {
			if isNotFound(err) {
				return apperr.NotFound(msgCategoryNotFound)
			}
			return err
		}
		if err := tx.Model(&domain.Transaction{}).Where("category_id = ?", id).UpdateColumn("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Category{}, id).Error
	})
	return wrapInternal("delete category", err)
}

// SeedDefaults inserts the default categories that are not present yet, keyed by name.
// It returns how many rows were inserted; a second run inserts nothing.
func (s *CategoryStore) SeedDefaults(ctx context.Context) (int, error) {
	inserted := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range domain.DefaultCategories() {
			category := c
			res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(&category)
			if res.Error != nil {
				return res.Error
			}
			inserted += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}
	return inserted, nil
}

func validCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxCategoryName {
		return "", apperr.Validation("Category name must be 1-100 characters")
	}
	return name, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
