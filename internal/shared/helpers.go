package shared

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the zap logger from the Gin context
// Returns a no-op logger if not found in context
func getLogger(c *gin.Context) *zap.Logger {
	const loggerKey = "logger"
	if logger, exists := c.Get(loggerKey); exists {
		if zapLogger, ok := logger.(*zap.Logger); ok {
			return zapLogger
		}
	}
	// Return a no-op logger if not found
	return zap.NewNop()
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, message string) {
	logger := getLogger(c)
	logger.Error("HTTP Error Response",
		zap.Int("status_code", statusCode),
		zap.String("error", http.StatusText(statusCode)),
		zap.String("message", message),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
	)

	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// RespondWithAppError sends an AppError response
func RespondWithAppError(c *gin.Context, err *AppError) {
	logger := getLogger(c)
	logger.Error("HTTP AppError Response",
		zap.Int("status_code", err.StatusCode),
		zap.String("error_code", err.Code),
		zap.String("message", err.Message),
		zap.Any("details", err.Details),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
	)

	c.JSON(err.StatusCode, err.ToResponse())
}

// RespondWithSuccess sends a success response with data
func RespondWithSuccess[T any](c *gin.Context, statusCode int, message string, data T) {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	logger := getLogger(c)
	logger.Info("HTTP Success Response",
		zap.Int("status_code", statusCode),
		zap.String("message", message),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
	)

	c.JSON(statusCode, SuccessResponse[T]{
		Status:  statusCode,
		Message: message,
		Data:    data,
	})
}

// HandleError handles errors and sends appropriate response
func HandleError(c *gin.Context, err error) {
	if appErr := ToAppError(err); appErr != nil {
		RespondWithAppError(c, appErr)
		return
	}

	// Fallback to internal server error
	RespondWithError(c, http.StatusInternalServerError, "Internal server error")
}
