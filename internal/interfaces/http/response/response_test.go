package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "agrichain.backend/internal/domain/errors"
)

func perform(t *testing.T, h gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", h)

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	if body != "" {
		req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestError_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{domainerrors.ErrNotFound, http.StatusNotFound, `{"code":"NOT_FOUND","message":"Resource not found"}`},
		{domainerrors.Conflict("Username already exists"), http.StatusConflict, `{"code":"CONFLICT","message":"Username already exists"}`},
		{domainerrors.InvalidCredentials(), http.StatusUnauthorized, `{"code":"INVALID_CREDENTIALS","message":"Invalid username or password"}`},
		{domainerrors.Validation("name is required"), http.StatusBadRequest, `{"code":"VALIDATION_ERROR","message":"Validation error","errors":"name is required"}`},
		{errors.New("disk full"), http.StatusInternalServerError, `{"code":"INTERNAL_ERROR","message":"Internal server error"}`},
	}
	for _, tc := range cases {
		w := perform(t, func(c *gin.Context) { Error(c, tc.err) }, "")
		assert.Equal(t, tc.status, w.Code)
		assert.JSONEq(t, tc.body, w.Body.String())
	}
}

func TestError_DoesNotLeakInternalDetails(t *testing.T) {
	w := perform(t, func(c *gin.Context) { Error(c, errors.New("pq: password authentication failed")) }, "")
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestBindError_DescribesFields(t *testing.T) {
	type input struct {
		Name  string  `json:"name" binding:"required"`
		Price float64 `json:"price" binding:"gte=0"`
		Role  string  `json:"role" binding:"omitempty,oneof=consumer farmer"`
	}
	handler := func(c *gin.Context) {
		var in input
		if err := c.ShouldBindJSON(&in); err != nil {
			BindError(c, err)
			return
		}
		c.Status(http.StatusOK)
	}

	w := perform(t, handler, `{"price":-1,"role":"admin"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name is required")
	assert.Contains(t, w.Body.String(), "price must be at least 0")
	assert.Contains(t, w.Body.String(), "role must be one of: consumer, farmer")

	w = perform(t, handler, `{"name":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")

	w = perform(t, handler, `{"name":"x","price":"free"}`)
	assert.Contains(t, w.Body.String(), "price must be of type float64")
}

func TestSuccess(t *testing.T) {
	w := perform(t, func(c *gin.Context) { Success(c, http.StatusCreated, gin.H{"id": 1}) }, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())
}
