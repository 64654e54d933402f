package handlers

import (
	"net/http"
	"strconv"

	"github.com/Euaell/Car-Dealership/internal/apperrors"
	"github.com/Euaell/Car-Dealership/internal/services"

	"github.com/gin-gonic/gin"
)

type TestDriveHandler struct {
	tdService services.TestDriveService
}

func NewTestDriveHandler(tdService services.TestDriveService) *TestDriveHandler {
	return &TestDriveHandler{tdService: tdService}
}

func (h *TestDriveHandler) Create(c *gin.Context) {
	var input services.CreateTestDriveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperrors.Validation("", "invalid request body"))
		return
	}

	td, err := h.tdService.CreateTestDrive(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, td)
}

func (h *TestDriveHandler) List(c *gin.Context) {
	var userID uint
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, apperrors.Validation("user_id", "user_id must be a positive integer"))
			return
		}
		userID = uint(parsed)
	}

	drives, err := h.tdService.GetTestDrives(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, drives)
}

func (h *TestDriveHandler) Complete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&req)

	td, err := h.tdService.CompleteTestDrive(c.Request.Context(), id, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, td)
}

func (h *TestDriveHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	td, err := h.tdService.CancelTestDrive(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, td)
}
