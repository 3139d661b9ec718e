package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

type CatalogHandler struct {
	catalog interfaces.CatalogService
	logger  logger.Logger
}

func NewCatalogHandler(catalog interfaces.CatalogService, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

func (h *CatalogHandler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.MenuItems())
}

func (h *CatalogHandler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.catalog.MenuItem(r.PathValue("id"))
	if !ok {
		respondError(w, "Menu item not found", http.StatusNotFound, nil)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *CatalogHandler) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	var item domain.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if strings.TrimSpace(item.Name) == "" {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "name", Message: "item name is required"},
		})
		return
	}

	created, err := h.catalog.AddMenuItem(item)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *CatalogHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var patch domain.MenuItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	h.catalog.UpdateMenuItem(r.PathValue("id"), patch)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	h.catalog.DeleteMenuItem(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Categories())
}

func (h *CatalogHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if strings.TrimSpace(category.Name) == "" {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "name", Message: "category name is required"},
		})
		return
	}
	respondJSON(w, http.StatusCreated, h.catalog.AddCategory(category))
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var patch domain.CategoryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	h.catalog.UpdateCategory(r.PathValue("id"), patch)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.catalog.DeleteCategory(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CatalogHandler) SetInventoryQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	h.catalog.SetInventoryQuantity(r.PathValue("id"), req.Quantity)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) SetInventorySettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.InventorySettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	h.catalog.SetInventorySettings(r.PathValue("id"), patch)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.LowStockItems())
}
