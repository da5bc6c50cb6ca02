package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/soms/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError транслирует доменную ошибку в HTTP-статус.
// Неклассифицированные ошибки отдаются как 500 без внутренних деталей.
func writeError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case domain.IsConflict(err):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case domain.IsBadRequest(err):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// pathID извлекает числовой идентификатор из параметра пути.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := parseID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid " + name + " path parameter"})
		return 0, false
	}
	return id, true
}
