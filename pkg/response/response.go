package response

import (
	apperrors "github.com/edutec/alunos-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

// JSON sends a successful response with the payload as-is. The front-end
// consumes flat objects and arrays, so there is no envelope on success.
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Message sends a `{message: string}` response.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Error sends an `{error: string}` response with the status carried by the
// AppError, or a generic 500 for anything unexpected.
func Error(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		c.JSON(appErr.Status, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(500, gin.H{"error": "Erro interno do servidor"})
}

// AbortError sends an error response and aborts the remaining handlers.
// Used by middleware so business logic never runs after a rejection.
func AbortError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// ValidationError sends a 400 `{error: string}` response.
func ValidationError(c *gin.Context, message string) {
	c.JSON(400, gin.H{"error": message})
}
