package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/enum"
	"github.com/tavola-pos/api/internal/model"
)

// MenuItemInput carries the editable menu item fields.
type MenuItemInput struct {
	Name        string
	Price       decimal.Decimal
	Category    string
	Description string
	Image       string
}

func (in MenuItemInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if in.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if !enum.IsCategory(in.Category) {
		return ErrInvalidCategory
	}
	return nil
}

func (in MenuItemInput) applyTo(it *model.MenuItem) {
	it.Name = strings.TrimSpace(in.Name)
	it.Price = in.Price
	it.Category = in.Category
	it.Description = in.Description
	it.Image = in.Image
}

// MenuItems lists the menu, optionally restricted to one category.
func (s *Restaurant) MenuItems(ctx context.Context, category string) ([]model.MenuItem, error) {
	items, err := s.repo.GetMenuItems(ctx)
	if err != nil {
		return nil, external("persistence", fmt.Errorf("load menu: %w", err))
	}
	out := []model.MenuItem{}
	for _, it := range items {
		if category == "" || it.Category == category {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *Restaurant) MenuItem(ctx context.Context, id string) (model.MenuItem, error) {
	items, err := s.repo.GetMenuItems(ctx)
	if err != nil {
		return model.MenuItem{}, external("persistence", fmt.Errorf("load menu: %w", err))
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	s.warnNotFound("get menu item", id, ErrMenuItemNotFound)
	return model.MenuItem{}, ErrMenuItemNotFound
}

func (s *Restaurant) CreateMenuItem(ctx context.Context, in MenuItemInput) (model.MenuItem, error) {
	if err := in.validate(); err != nil {
		return model.MenuItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.GetMenuItems(ctx)
	if err != nil {
		return model.MenuItem{}, external("persistence", fmt.Errorf("load menu: %w", err))
	}
	it := model.MenuItem{ID: s.newID()}
	in.applyTo(&it)
	if err := s.repo.SaveMenuItems(ctx, append(items, it)); err != nil {
		return model.MenuItem{}, external("persistence", fmt.Errorf("save menu: %w", err))
	}
	return it, nil
}

// UpdateMenuItem edits a menu item. Orders keep the snapshot they took.
func (s *Restaurant) UpdateMenuItem(ctx context.Context, id string, in MenuItemInput) (model.MenuItem, error) {
	if err := in.validate(); err != nil {
		return model.MenuItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.GetMenuItems(ctx)
	if err != nil {
		return model.MenuItem{}, external("persistence", fmt.Errorf("load menu: %w", err))
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		in.applyTo(&items[i])
		if err := s.repo.SaveMenuItems(ctx, items); err != nil {
			return model.MenuItem{}, external("persistence", fmt.Errorf("save menu: %w", err))
		}
		return items[i], nil
	}
	s.warnNotFound("update menu item", id, ErrMenuItemNotFound)
	return model.MenuItem{}, ErrMenuItemNotFound
}

func (s *Restaurant) DeleteMenuItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.GetMenuItems(ctx)
	if err != nil {
		return external("persistence", fmt.Errorf("load menu: %w", err))
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items = append(items[:i], items[i+1:]...)
		if err := s.repo.SaveMenuItems(ctx, items); err != nil {
			return external("persistence", fmt.Errorf("save menu: %w", err))
		}
		return nil
	}
	s.warnNotFound("delete menu item", id, ErrMenuItemNotFound)
	return ErrMenuItemNotFound
}
