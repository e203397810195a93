package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/gateway"
)

// Catalog lists categories and the courses of the selected one.
type Catalog struct {
	gateway gateway.Gateway
	logger  *slog.Logger

	categories []domain.Category
	selected   int
	courses    []domain.Course
}

// NewCatalog creates an empty Catalog.
func NewCatalog(gw gateway.Gateway, logger *slog.Logger) *Catalog {
	if gw == nil {
		panic("gateway cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		gateway:  gw,
		logger:   logger.With(slog.String("component", "catalog")),
		selected: -1,
	}
}

// Load fetches the categories and selects the first one.
func (c *Catalog) Load(ctx context.Context) error {
	categories, err := c.gateway.Categories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	c.categories = categories
	c.selected = -1
	c.courses = nil

	if len(categories) == 0 {
		return nil
	}
	return c.SelectCategory(ctx, categories[0].ID)
}

// SelectCategory selects a listed category and fetches its courses.
func (c *Catalog) SelectCategory(ctx context.Context, categoryID string) error {
	index := -1
	for i, category := range c.categories {
		if category.ID == categoryID {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, categoryID)
	}
	c.selected = index

	courses, err := c.gateway.Courses(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to load courses: %w", err)
	}
	c.courses = courses
	return nil
}

func (c *Catalog) Categories() []domain.Category {
	return c.categories
}

// Selected returns the selected category.
func (c *Catalog) Selected() (domain.Category, bool) {
	if c.selected < 0 || c.selected >= len(c.categories) {
		return domain.Category{}, false
	}
	return c.categories[c.selected], true
}

// Courses returns the courses of the selected category.
func (c *Catalog) Courses() []domain.Course {
	return c.courses
}
