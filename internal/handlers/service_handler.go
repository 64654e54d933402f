package handlers

import (
	"net/http"
	"strconv"

	"github.com/Euaell/Car-Dealership/internal/apperrors"
	"github.com/Euaell/Car-Dealership/internal/services"

	"github.com/gin-gonic/gin"
)

type ServiceHandler struct {
	scheduler services.ServiceScheduler
}

func NewServiceHandler(scheduler services.ServiceScheduler) *ServiceHandler {
	return &ServiceHandler{scheduler: scheduler}
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var input services.CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperrors.Validation("", "invalid request body"))
		return
	}

	service, err := h.scheduler.CreateService(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) List(c *gin.Context) {
	var userID uint
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, apperrors.Validation("user_id", "user_id must be a positive integer"))
			return
		}
		userID = uint(parsed)
	}

	list, err := h.scheduler.GetServices(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	service, err := h.scheduler.GetServiceByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input services.UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperrors.Validation("", "invalid request body"))
		return
	}

	service, err := h.scheduler.UpdateService(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

func (h *ServiceHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	service, err := h.scheduler.CancelService(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

func (h *ServiceHandler) ListTypes(c *gin.Context) {
	types, err := h.scheduler.GetServiceTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}
