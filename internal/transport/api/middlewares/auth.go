package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/api/tokens"
	"github.com/gin-gonic/gin"
)

var ErrTokenNotExist = errors.New("token not exist")

const (
	CurrentUserIDKey   = "currentUserID"
	CurrentUserRoleKey = "currentUserRole"
)

const bearerPrefix = "Bearer "

// checkAuthorization извлекает токен из заголовка Authorization и проверяет его. Если токен не передан, вернется
// ошибка ErrTokenNotExist.
func checkAuthorization(c *gin.Context, jwtTokenSecret []byte) (*tokens.UserClaims, error) {
	tokenStr, found := strings.CutPrefix(c.GetHeader("Authorization"), bearerPrefix)
	if !found || tokenStr == "" {
		return nil, ErrTokenNotExist
	}

	claims, err := tokens.ValidateUserJWT(tokenStr, jwtTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("check authorization: %w", err)
	}
	return claims, nil
}

// AuthRequired проверяет, что запрос авторизован. Записывает в контекст id (CurrentUserIDKey) и роль
// (CurrentUserRoleKey) юзера.
func AuthRequired(jwtTokenSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := checkAuthorization(c, jwtTokenSecret)
		if err != nil {
			if !errors.Is(err, ErrTokenNotExist) {
				_ = c.Error(err).SetType(gin.ErrorTypePrivate)
			}
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set(CurrentUserIDKey, claims.ID)
		c.Set(CurrentUserRoleKey, claims.Role)
		c.Next()
	}
}

// RoleRequired пропускает только юзеров с ролью role. Ставится после AuthRequired.
func RoleRequired(role domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, _ := c.Get(CurrentUserRoleKey)
		if userRole, ok := current.(domain.UserRole); !ok || userRole != role {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
