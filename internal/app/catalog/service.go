package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

// Service owns the menu and category catalog. In-memory state is
// authoritative; the mirror is written best-effort after every mutation.
type Service struct {
	mirror interfaces.CatalogMirror
	logger logger.Logger

	mu         sync.Mutex
	items      []domain.MenuItem
	categories []domain.Category

	writes sync.WaitGroup
}

func NewService(mirror interfaces.CatalogMirror, lgr logger.Logger) *Service {
	return &Service{
		mirror: mirror,
		logger: lgr,
	}
}

// Load hydrates the catalog from the mirror. An absent snapshot leaves the
// catalog empty; items are created through the admin panel.
func (s *Service) Load(ctx context.Context) error {
	items, ok, err := s.mirror.LoadMenuItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load menu items: %w", err)
	}
	categories, _, err := s.mirror.LoadCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.items = items
	}
	s.categories = categories
	return nil
}

func (s *Service) MenuItems() []domain.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.items)
}

func (s *Service) MenuItem(id string) (domain.MenuItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.MenuItem{}, false
}

func (s *Service) Categories() []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Service) AddMenuItem(item domain.MenuItem) (domain.MenuItem, error) {
	if strings.TrimSpace(item.Name) == "" {
		return domain.MenuItem{}, fmt.Errorf("menu item name is required")
	}
	if item.Price.IsNegative() {
		return domain.MenuItem{}, fmt.Errorf("menu item price cannot be negative")
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	s.mu.Lock()
	s.items = append(s.items, item)
	snapshot := copyItems(s.items)
	s.mu.Unlock()

	s.saveItems(snapshot)
	return item, nil
}

// UpdateMenuItem is a no-op when the item does not exist.
func (s *Service) UpdateMenuItem(id string, patch domain.MenuItemPatch) {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID == id {
			patch.Apply(&s.items[i])
			changed = true
			break
		}
	}
	snapshot := copyItems(s.items)
	s.mu.Unlock()

	if changed {
		s.saveItems(snapshot)
	}
}

func (s *Service) DeleteMenuItem(id string) {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			changed = true
			break
		}
	}
	snapshot := copyItems(s.items)
	s.mu.Unlock()

	if changed {
		s.saveItems(snapshot)
	}
}

func (s *Service) AddCategory(category domain.Category) domain.Category {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}

	s.mu.Lock()
	s.categories = append(s.categories, category)
	snapshot := make([]domain.Category, len(s.categories))
	copy(snapshot, s.categories)
	s.mu.Unlock()

	s.saveCategories(snapshot)
	return category
}

func (s *Service) UpdateCategory(id string, patch domain.CategoryPatch) {
	s.mu.Lock()
	changed := false
	for i := range s.categories {
		if s.categories[i].ID == id {
			patch.Apply(&s.categories[i])
			changed = true
			break
		}
	}
	snapshot := make([]domain.Category, len(s.categories))
	copy(snapshot, s.categories)
	s.mu.Unlock()

	if changed {
		s.saveCategories(snapshot)
	}
}

func (s *Service) DeleteCategory(id string) {
	s.mu.Lock()
	changed := false
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			changed = true
			break
		}
	}
	snapshot := make([]domain.Category, len(s.categories))
	copy(snapshot, s.categories)
	s.mu.Unlock()

	if changed {
		s.saveCategories(snapshot)
	}
}

// SetInventoryQuantity sets the absolute stock level, clamped at zero. An
// item without an inventory record gets one with alert defaults.
func (s *Service) SetInventoryQuantity(itemID string, quantity int) {
	if quantity < 0 {
		quantity = 0
	}

	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID != itemID {
			continue
		}
		inv := s.items[i].Inventory
		if inv == nil {
			inv = &domain.Inventory{
				AlertThreshold: domain.DefaultAlertThreshold,
				Unit:           domain.DefaultInventoryUnit,
			}
			s.items[i].Inventory = inv
		}
		inv.Quantity = quantity
		changed = true
		break
	}
	snapshot := copyItems(s.items)
	s.mu.Unlock()

	if changed {
		s.saveItems(snapshot)
	}
}

// SetInventorySettings merges alert settings into the existing inventory
// record, defaulting threshold and unit when previously absent.
func (s *Service) SetInventorySettings(itemID string, patch domain.InventorySettingsPatch) {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID != itemID {
			continue
		}
		inv := s.items[i].Inventory
		if inv == nil {
			inv = &domain.Inventory{}
			s.items[i].Inventory = inv
		}
		inv.AlertEnabled = patch.AlertEnabled
		if patch.AlertThreshold != nil {
			inv.AlertThreshold = *patch.AlertThreshold
		} else if inv.AlertThreshold == 0 {
			inv.AlertThreshold = domain.DefaultAlertThreshold
		}
		if patch.Unit != nil {
			inv.Unit = *patch.Unit
		} else if inv.Unit == "" {
			inv.Unit = domain.DefaultInventoryUnit
		}
		changed = true
		break
	}
	snapshot := copyItems(s.items)
	s.mu.Unlock()

	if changed {
		s.saveItems(snapshot)
	}
}

// ReserveStock decrements stock for an ordered item, clamped at zero. Items
// without inventory tracking are unaffected.
func (s *Service) ReserveStock(itemID string, quantity int) {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID != itemID || s.items[i].Inventory == nil {
			continue
		}
		remaining := s.items[i].Inventory.Quantity - quantity
		if remaining < 0 {
			remaining = 0
		}
		s.items[i].Inventory.Quantity = remaining
		changed = true
		break
	}
	snapshot := copyItems(s.items)
	s.mu.Unlock()

	if changed {
		s.saveItems(snapshot)
	}
}

func (s *Service) LowStockItems() []domain.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var low []domain.MenuItem
	for _, item := range s.items {
		if item.LowStock() {
			low = append(low, item)
		}
	}
	return low
}

func (s *Service) saveItems(items []domain.MenuItem) {
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		if err := s.mirror.SaveMenuItems(context.Background(), items); err != nil {
			s.logger.Error("menu_mirror_failed", "Failed to persist menu items", "", nil, err)
		}
	}()
}

func (s *Service) saveCategories(categories []domain.Category) {
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		if err := s.mirror.SaveCategories(context.Background(), categories); err != nil {
			s.logger.Error("category_mirror_failed", "Failed to persist categories", "", nil, err)
		}
	}()
}

// Flush blocks until every pending mirror write has finished.
func (s *Service) Flush() {
	s.writes.Wait()
}

func copyItems(items []domain.MenuItem) []domain.MenuItem {
	out := make([]domain.MenuItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].Inventory != nil {
			inv := *out[i].Inventory
			out[i].Inventory = &inv
		}
	}
	return out
}
