package handler

import (
	"net/http"
	"strconv"

	"pocketbook/internal/ledger"
	"pocketbook/internal/models"
	"pocketbook/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryHandler exposes category CRUD over the ledger store.
type CategoryHandler struct {
	Store *ledger.Store
}

func NewCategoryHandler(store *ledger.Store) *CategoryHandler {
	return &CategoryHandler{Store: store}
}

type categoryReq struct {
	Name string `json:"name" binding:"required"`
	Kind string `json:"type" binding:"required,oneof=income expense"`
}

type categoryResp struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Kind string `json:"type"`
}

func toCategoryResp(cat *models.Category) categoryResp {
	return categoryResp{ID: cat.ID, Name: cat.Name, Kind: cat.Kind}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	cat, err := h.Store.CreateCategory(user.ID, req.Name, req.Kind)
	if err != nil {
		storeError(c, err)
		return
	}

	util.Success(c, util.Response{
		"category": toCategoryResp(cat),
	})
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	cats, err := h.Store.ListCategories(user.ID)
	if err != nil {
		storeError(c, err)
		return
	}

	items := make([]categoryResp, 0, len(cats))
	for i := range cats {
		items = append(items, toCategoryResp(&cats[i]))
	}

	util.Success(c, util.Response{
		"categories": items,
	})
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	cat, err := h.Store.UpdateCategory(user.ID, uint(id), req.Name, req.Kind)
	if err != nil {
		storeError(c, err)
		return
	}

	util.Success(c, util.Response{
		"category": toCategoryResp(cat),
	})
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if err := h.Store.DeleteCategory(user.ID, uint(id)); err != nil {
		storeError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "category deleted",
	})
}

// SetupDefaultCategories seeds the default set for the current user.
// Useful for accounts created before seeding existed; safe to repeat.
func (h *CategoryHandler) SetupDefaultCategories(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.Store.SeedDefaultCategories(user.ID); err != nil {
		storeError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "default categories created",
	})
}
