package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"blogcms/internal/forms"
	"blogcms/internal/identity"
	"blogcms/internal/models"
	"blogcms/internal/repository"
)

const DefaultCategoryColor = "#54C4C7"

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, actor *identity.Identity, values map[string]string) (*models.Category, error)
	Delete(ctx context.Context, actor *identity.Identity, categoryID string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.ListAll(ctx)
}

func (s *categoryService) Create(ctx context.Context, actor *identity.Identity, values map[string]string) (*models.Category, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	if err := invalid(forms.Category.Validate(values)); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        strings.TrimSpace(values["name"]),
		Description: strings.TrimSpace(values["description"]),
		Color:       strings.TrimSpace(values["color"]),
	}
	if category.Color == "" {
		category.Color = DefaultCategoryColor
	}

	err := saveWithSlug(ctx, category.Name, categorySlugMaxLength, s.categoryRepo.SlugExists,
		func(slug string) { category.Slug = slug },
		func() error { return s.categoryRepo.Create(ctx, category) })
	if errors.Is(err, ErrConflict) {
		return nil, fieldError("name", "Category with this Name already exists.")
	}
	if err != nil {
		return nil, err
	}

	return category, nil
}

// Delete removes the category. Its posts stay and lose the reference.
func (s *categoryService) Delete(ctx context.Context, actor *identity.Identity, categoryID string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}

	if _, err := uuid.Parse(categoryID); err != nil {
		return fmt.Errorf("category %q: %w", categoryID, ErrNotFound)
	}

	return s.categoryRepo.Delete(ctx, categoryID)
}
