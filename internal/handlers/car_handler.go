package handlers

import (
	"net/http"

	"github.com/Euaell/Car-Dealership/internal/apperrors"
	"github.com/Euaell/Car-Dealership/internal/models"
	"github.com/Euaell/Car-Dealership/internal/services"

	"github.com/gin-gonic/gin"
)

type CarHandler struct {
	carService services.CarService
}

func NewCarHandler(carService services.CarService) *CarHandler {
	return &CarHandler{carService: carService}
}

func (h *CarHandler) Create(c *gin.Context) {
	var car models.Car
	if err := c.ShouldBindJSON(&car); err != nil {
		respondError(c, apperrors.Validation("", "invalid request body"))
		return
	}

	if err := h.carService.CreateCar(c.Request.Context(), &car); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, car)
}

func (h *CarHandler) List(c *gin.Context) {
	cars, err := h.carService.GetCars(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (h *CarHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	car, err := h.carService.GetCarByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *CarHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var car models.Car
	if err := c.ShouldBindJSON(&car); err != nil {
		respondError(c, apperrors.Validation("", "invalid request body"))
		return
	}
	car.ID = id

	if err := h.carService.UpdateCar(c.Request.Context(), &car); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *CarHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.carService.DeleteCar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *CarHandler) SetMaintenance(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		InMaintenance bool `json:"in_maintenance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("", "invalid request body"))
		return
	}

	car, err := h.carService.SetMaintenance(c.Request.Context(), id, req.InMaintenance)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}
