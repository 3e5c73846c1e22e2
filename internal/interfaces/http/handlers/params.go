package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domainerrors "agrichain.backend/internal/domain/errors"
	"agrichain.backend/internal/interfaces/http/response"
)

// parseID reads a positive integer path parameter. On failure the
// response has already been written.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, domainerrors.Validation(name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}
