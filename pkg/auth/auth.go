package auth

import (
	"context"
	"os"

	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var JWTKey = jwtKey()

func jwtKey() []byte {
	if key := os.Getenv("JWT_KEY"); key != "" {
		return []byte(key)
	}
	return []byte("knowledgehub-dev-key")
}

type Claims struct {
	Profile struct {
		UserID   int    `json:"userId"`
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"profile"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

type ctxKey int

const (
	userNameKey ctxKey = iota + 1
	userRoleKey
	userIDKey
)

func SetAuthContext(ctx context.Context, username, role string, userID int) context.Context {
	ctx = context.WithValue(ctx, userNameKey, username)
	ctx = context.WithValue(ctx, userRoleKey, role)
	return context.WithValue(ctx, userIDKey, userID)
}

func Username(ctx context.Context) string {
	name, _ := ctx.Value(userNameKey).(string)
	return name
}

func Role(ctx context.Context) string {
	role, _ := ctx.Value(userRoleKey).(string)
	return role
}

func UserID(ctx context.Context) int {
	id, _ := ctx.Value(userIDKey).(int)
	return id
}

func IsAdmin(ctx context.Context) bool {
	return Role(ctx) == RoleAdmin
}
