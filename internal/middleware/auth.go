package middleware

import (
	"errors"

	"github.com/KelvenPer/Aura/internal/logger"
	"github.com/KelvenPer/Aura/internal/models"
	"github.com/KelvenPer/Aura/internal/services"
	"github.com/KelvenPer/Aura/pkg/apperrors"
	"github.com/KelvenPer/Aura/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware - проверка bearer токена. Пользователь кладется в gin-контекст
// (contextkeys.CurrentUserKey), его id - в контекст логгера.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, ok := c.Get(string(contextkeys.DBContextKey))
		if !ok {
			apperrors.HandleError(c, apperrors.InternalError(errors.New("db is not set in request context")))
			return
		}

		user, err := authService.ResolveBearer(c.Request.Context(), db.(*gorm.DB), c.GetHeader("Authorization"))
		if err != nil {
			logger.CtxDebug(c.Request.Context(), "Request rejected by auth gate", "path", c.Request.URL.Path)
			apperrors.HandleError(c, err)
			return
		}

		c.Set(string(contextkeys.CurrentUserKey), user)
		ctx := logger.WithUserID(c.Request.Context(), services.UserIDString(user))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CurrentUser извлекает пользователя, которого положил AuthMiddleware
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(string(contextkeys.CurrentUserKey))
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok && user != nil
}
