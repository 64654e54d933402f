package handlers

import (
	"net/http"

	"github.com/Euaell/Car-Dealership/internal/apperrors"
	"github.com/Euaell/Car-Dealership/internal/models"
	"github.com/Euaell/Car-Dealership/internal/services"

	"github.com/gin-gonic/gin"
)

type SparePartHandler struct {
	partService services.SparePartService
}

func NewSparePartHandler(partService services.SparePartService) *SparePartHandler {
	return &SparePartHandler{partService: partService}
}

func (h *SparePartHandler) Create(c *gin.Context) {
	var part models.SparePart
	if err := c.ShouldBindJSON(&part); err != nil {
		respondError(c, apperrors.Validation("", "invalid request body"))
		return
	}

	if err := h.partService.CreateSparePart(c.Request.Context(), &part); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, part)
}

func (h *SparePartHandler) List(c *gin.Context) {
	parts, err := h.partService.GetSpareParts(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parts)
}

func (h *SparePartHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	part, err := h.partService.GetSparePartByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, part)
}

func (h *SparePartHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var part models.SparePart
	if err := c.ShouldBindJSON(&part); err != nil {
		respondError(c, apperrors.Validation("", "invalid request body"))
		return
	}
	part.ID = id

	if err := h.partService.UpdateSparePart(c.Request.Context(), &part); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, part)
}

func (h *SparePartHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.partService.DeleteSparePart(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *SparePartHandler) AdjustStock(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Quantity  int    `json:"quantity"`
		Operation string `json:"operation"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("", "invalid request body"))
		return
	}

	adjustment, err := h.partService.AdjustStock(c.Request.Context(), id, req.Quantity, models.StockOperation(req.Operation))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adjustment)
}

func (h *SparePartHandler) LowStock(c *gin.Context) {
	parts, err := h.partService.GetLowStockParts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parts)
}
