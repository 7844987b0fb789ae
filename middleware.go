package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/solokill756/tourbooking/model"
)

const sessionContextKey = "session"

// JWT service for token validation
type JWTService struct {
	secretKey string
}

func NewJWTService(secretKey string) *JWTService {
	return &JWTService{
		secretKey: secretKey,
	}
}

// Claims represents the JWT claims. Tokens are minted by the external auth
// provider; this service only validates them.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ResolveSession validates a token and resolves the caller's identity. It
// fails closed: a missing, expired or malformed token, a non-numeric user id
// or an unknown role all come back as an error and the caller stays
// anonymous.
func (j *JWTService) ResolveSession(tokenString string) (model.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return model.Session{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return model.Session{}, jwt.ErrSignatureInvalid
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return model.Session{}, fmt.Errorf("invalid user id claim: %w", err)
	}

	role := model.Role(claims.Role)
	if !role.Valid() {
		return model.Session{}, fmt.Errorf("invalid role claim: %q", claims.Role)
	}

	return model.Session{UserID: userID, Role: role}, nil
}

// AuthMiddleware validates the bearer token and stores the resolved session
// in the request context. No handler behind it runs without a valid session.
func AuthMiddleware(jwtService *JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{
				Error:   "unauthorized",
				Message: "Authorization header is required",
			})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{
				Error:   "unauthorized",
				Message: "Authorization header must be Bearer token",
			})
			c.Abort()
			return
		}

		session, err := jwtService.ResolveSession(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// AdminMiddleware requires an admin session. A valid user session is not
// enough for the routes behind it.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c)
		if !ok || !session.IsAdmin() {
			c.JSON(http.StatusForbidden, model.ErrorResponse{
				Error:   "forbidden",
				Message: "Admin role required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// sessionFromContext retrieves the session placed by AuthMiddleware.
func sessionFromContext(c *gin.Context) (model.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return model.Session{}, false
	}

	session, ok := value.(model.Session)
	return session, ok
}

// CORSMiddleware handles Cross-Origin Resource Sharing
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
