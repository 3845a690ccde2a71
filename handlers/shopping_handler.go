package handlers

import (
	"net/http"

	"github.com/homequeen/api/models"
	"github.com/homequeen/api/services"
)

// CreateListRequest is the body of POST /api/shopping/lists
type CreateListRequest struct {
	Name string `json:"name"`
}

// AddItemRequest is the body of POST /api/shopping/lists/{id}/items
type AddItemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Quantity *int    `json:"quantity" validate:"omitempty,gt=0"`
	Unit     *string `json:"unit"`
}

// UpdateItemRequest is the body of PATCH /api/shopping/items/{id}
type UpdateItemRequest struct {
	IsPurchased *bool   `json:"isPurchased"`
	Name        *string `json:"name"`
	Quantity    *int    `json:"quantity" validate:"omitempty,gt=0"`
}

// ShoppingHandler handles shopping lists and their items
type ShoppingHandler struct {
	Responder
	shopping *services.ShoppingService
}

// NewShoppingHandler creates a new ShoppingHandler
func NewShoppingHandler(shopping *services.ShoppingService, r Responder) *ShoppingHandler {
	return &ShoppingHandler{Responder: r, shopping: shopping}
}

// HandleListLists handles GET /api/shopping/lists
func (h *ShoppingHandler) HandleListLists(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	lists, err := h.shopping.Lists(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, lists)
}

// HandleGetList handles GET /api/shopping/lists/{id}
func (h *ShoppingHandler) HandleGetList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	listID, ok := h.pathID(w, r, "id", services.ErrListNotFound)
	if !ok {
		return
	}
	list, err := h.shopping.GetList(r.Context(), id.UserID, listID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, list)
}

// HandleCreateList handles POST /api/shopping/lists
func (h *ShoppingHandler) HandleCreateList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req CreateListRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	list, err := h.shopping.CreateList(r.Context(), id.UserID, req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, list)
}

// HandleAddItem handles POST /api/shopping/lists/{id}/items
func (h *ShoppingHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	listID, ok := h.pathID(w, r, "id", services.ErrListNotFound)
	if !ok {
		return
	}
	var req AddItemRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.shopping.AddItem(r.Context(), id.UserID, listID, services.ItemInput{
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, item)
}

// HandleUpdateItem handles PATCH /api/shopping/items/{id}
func (h *ShoppingHandler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	itemID, ok := h.pathID(w, r, "id", services.ErrItemNotFound)
	if !ok {
		return
	}
	var req UpdateItemRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.shopping.UpdateItem(r.Context(), id.UserID, itemID, models.ShoppingItemPatch{
		Name:        req.Name,
		Quantity:    req.Quantity,
		IsPurchased: req.IsPurchased,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, item)
}

// HandleDeleteItem handles DELETE /api/shopping/items/{id}
func (h *ShoppingHandler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	itemID, ok := h.pathID(w, r, "id", services.ErrItemNotFound)
	if !ok {
		return
	}
	if err := h.shopping.DeleteItem(r.Context(), id.UserID, itemID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
