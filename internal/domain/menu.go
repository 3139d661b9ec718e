package domain

// Inventory tracks the stock level of a menu item. Quantity is clamped to zero
// on every mutation.
type Inventory struct {
	Quantity       int    `json:"quantity"`
	AlertThreshold int    `json:"alert_threshold"`
	AlertEnabled   bool   `json:"alert_enabled"`
	Unit           string `json:"unit"`
}

const (
	DefaultAlertThreshold = 5
	DefaultInventoryUnit  = "units"
)

type MenuItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Price       Money      `json:"price"`
	Image       string     `json:"image,omitempty"`
	CategoryID  string     `json:"category"`
	Popular     bool       `json:"popular,omitempty"`
	Ingredients []string   `json:"ingredients,omitempty"`
	Inventory   *Inventory `json:"inventory,omitempty"`
}

// LowStock reports whether the item should appear on the low-stock alert list.
func (m *MenuItem) LowStock() bool {
	if m.Inventory == nil || !m.Inventory.AlertEnabled {
		return false
	}
	return m.Inventory.Quantity <= m.Inventory.AlertThreshold
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Color       string `json:"color,omitempty"`
}

// MenuItemPatch is a partial update; nil fields are left untouched.
type MenuItemPatch struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       *Money    `json:"price,omitempty"`
	Image       *string   `json:"image,omitempty"`
	CategoryID  *string   `json:"category,omitempty"`
	Popular     *bool     `json:"popular,omitempty"`
	Ingredients *[]string `json:"ingredients,omitempty"`
}

func (p MenuItemPatch) Apply(item *MenuItem) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Image != nil {
		item.Image = *p.Image
	}
	if p.CategoryID != nil {
		item.CategoryID = *p.CategoryID
	}
	if p.Popular != nil {
		item.Popular = *p.Popular
	}
	if p.Ingredients != nil {
		item.Ingredients = *p.Ingredients
	}
}

type CategoryPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	Color       *string `json:"color,omitempty"`
}

func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Image != nil {
		c.Image = *p.Image
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
}

// InventorySettingsPatch updates alerting without touching the quantity.
// AlertEnabled is always set; the rest default when the item had no inventory
// record yet.
type InventorySettingsPatch struct {
	AlertThreshold *int    `json:"alert_threshold,omitempty"`
	AlertEnabled   bool    `json:"alert_enabled"`
	Unit           *string `json:"unit,omitempty"`
}
