package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseIDParam lee el parametro :id de la ruta o corta con 400.
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
