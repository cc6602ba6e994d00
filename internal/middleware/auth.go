package middleware

import (
	"careers-page-builder/auth"
	"careers-page-builder/internal/domain"
	"careers-page-builder/internal/errors"
	"context"
	defError "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Keys under which the authenticated caller is stored on the gin context
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
)

type UserProvider interface {
	GetUserByID(ctx context.Context, id uint64) (*domain.User, error)
}

type Auth struct {
	UserService UserProvider
}

// AuthMiddleWare resolves the caller from a bearer access token
func (m *Auth) AuthMiddleWare() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			ctx.Error(errors.Unauthorized("Authorization is not found!", nil))
			ctx.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		parsedToken, err := auth.VerifyJWT(token)
		if err != nil || auth.TokenKind(parsedToken) != "access" {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		userID, tokenVersion, err := auth.GetDataFromToken(parsedToken)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		user, err := m.UserService.GetUserByID(ctx.Request.Context(), userID)
		if err != nil {
			if defError.Is(err, domain.ErrNotFound) {
				err = errors.Unauthorized("Invalid User ID!", err)
			} else if !errors.IsStatus(err, http.StatusInternalServerError) {
				err = errors.Storage("resolve caller", err)
			}
			ctx.Error(err)
			ctx.Abort()
			return
		}

		if !user.IsActive || user.TokenVersion != tokenVersion {
			ctx.Error(errors.Unauthorized("Invalid token version!", nil))
			ctx.Abort()
			return
		}

		ctx.Set(UserIDKey, user.ID)
		ctx.Set(UserEmailKey, user.Email)
		ctx.Next()
	}
}

// CurrentUser returns the caller resolved by AuthMiddleWare
func CurrentUser(c *gin.Context) (uint64, string) {
	return c.GetUint64(UserIDKey), c.GetString(UserEmailKey)
}
