package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/code-explainer-backend/internal/http/response"
	"github.com/yungbote/code-explainer-backend/internal/platform/apierr"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

const (
	AdminRole       = "admin"
	ctxAdminSubject = "admin_subject"
)

var errUnauthorized = errors.New("missing or invalid token")

// AdminClaims are the claims accepted on table mutation routes.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AdminAuth struct {
	log    *logger.Logger
	secret []byte
}

func NewAdminAuth(log *logger.Logger, secret string) *AdminAuth {
	return &AdminAuth{log: log.With("middleware", "AdminAuth"), secret: []byte(secret)}
}

// RequireAdmin accepts an HS256 bearer token signed with the admin secret
// whose role claim is "admin".
func (a *AdminAuth) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" || len(a.secret) == 0 {
			response.AbortWithError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, errUnauthorized)
			return
		}
		claims := &AdminClaims{}
		parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(30*time.Second))
		tok, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
			return a.secret, nil
		})
		if err != nil || !tok.Valid || claims.Role != AdminRole {
			a.log.Warn("admin token rejected", "path", c.Request.URL.Path, "error", err)
			response.AbortWithError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, errUnauthorized)
			return
		}
		c.Set(ctxAdminSubject, claims.Subject)
		c.Next()
	}
}

// AdminSubject returns the subject of the verified admin token, or "admin".
func AdminSubject(c *gin.Context) string {
	if v, ok := c.Get(ctxAdminSubject); ok {
		if s, _ := v.(string); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return AdminRole
}

// SignAdminToken issues an admin token. Used by operators and tests.
func SignAdminToken(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Role: AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func bearerToken(h string) string {
	h = strings.TrimSpace(h)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
