package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
	"agrichain.backend/internal/interfaces/http/response"
	"agrichain.backend/internal/usecases"
)

// MaxScanUploadBytes caps the size of an uploaded QR image.
const MaxScanUploadBytes = 5 << 20

// VerificationHandler handles verification endpoints
type VerificationHandler struct {
	verificationUsecase *usecases.VerificationUsecase
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(verificationUsecase *usecases.VerificationUsecase) *VerificationHandler {
	return &VerificationHandler{verificationUsecase: verificationUsecase}
}

// ListByEntity handles GET /api/verifications/entity/:type/:id
func (h *VerificationHandler) ListByEntity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	records, err := h.verificationUsecase.ListByEntity(c.Request.Context(), entities.EntityType(c.Param("type")), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, records)
}

// GetVerification handles GET /api/verifications/:id
func (h *VerificationHandler) GetVerification(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	record, err := h.verificationUsecase.GetVerification(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, record)
}

// CreateVerification handles POST /api/verifications
func (h *VerificationHandler) CreateVerification(c *gin.Context) {
	var input entities.CreateVerificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	record, err := h.verificationUsecase.CreateVerification(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, record)
}

// Attest handles POST /api/verifications/attest
func (h *VerificationHandler) Attest(c *gin.Context) {
	var input entities.AttestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.verificationUsecase.Attest(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// Verify handles GET /api/verifications/verify/:type/:id
func (h *VerificationHandler) Verify(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.verificationUsecase.Verify(c.Request.Context(), entities.EntityType(c.Param("type")), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Scan handles POST /api/verifications/scan with a multipart "image" field
func (h *VerificationHandler) Scan(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxScanUploadBytes)

	header, err := c.FormFile("image")
	if err != nil {
		response.Error(c, domainerrors.Validation("image is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.verificationUsecase.Scan(c.Request.Context(), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// JWKS handles GET /api/verifications/jwks
func (h *VerificationHandler) JWKS(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=300")
	response.Success(c, http.StatusOK, h.verificationUsecase.JWKS())
}
