package middleware

import (
	apiError "careers-page-builder/internal/errors"
	"careers-page-builder/internal/logger"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var apiErr *apiError.APIError
		if !errors.As(err, &apiErr) {
			apiErr = apiError.Internal(err)
		}

		log := logger.FromGin(c)
		if apiErr.Status >= 500 {
			log.Error("request failed",
				zap.Int("status", apiErr.Status),
				zap.String("path", c.Request.URL.Path),
				zap.Error(apiErr.Internal),
			)
		} else {
			log.Info(apiErr.Message,
				zap.Int("status", apiErr.Status),
				zap.NamedError("cause", apiErr.Internal),
			)
		}

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(apiErr.Status, apiErr)
	}
}
