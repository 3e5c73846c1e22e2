package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agrichain.backend/internal/domain/entities"
	"agrichain.backend/internal/interfaces/http/response"
	"agrichain.backend/internal/usecases"
)

// FarmerHandler handles farmer profile endpoints
type FarmerHandler struct {
	farmerUsecase *usecases.FarmerUsecase
}

func NewFarmerHandler(farmerUsecase *usecases.FarmerUsecase) *FarmerHandler {
	return &FarmerHandler{farmerUsecase: farmerUsecase}
}

// GET /api/farmers
func (h *FarmerHandler) ListFarmers(c *gin.Context) {
	farmers, err := h.farmerUsecase.ListFarmers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, farmers)
}

// GET /api/farmers/:id
func (h *FarmerHandler) GetFarmer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	farmer, err := h.farmerUsecase.GetFarmer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, farmer)
}

// POST /api/farmers
func (h *FarmerHandler) CreateFarmer(c *gin.Context) {
	var input entities.CreateFarmerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	farmer, err := h.farmerUsecase.CreateFarmer(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, farmer)
}

// PUT /api/farmers/:id
func (h *FarmerHandler) UpdateFarmer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input entities.UpdateFarmerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	farmer, err := h.farmerUsecase.UpdateFarmer(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, farmer)
}
