package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quill/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenTestServer() *Server {
	return &Server{config: &config.Config{JWTSecret: "test_secret"}}
}

func protectedApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID")})
	})
	return app
}

func TestAuthRequired_ValidToken(t *testing.T) {
	s := newTokenTestServer()
	app := protectedApp(s)

	token, err := s.generateToken(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequired_MissingHeader(t *testing.T) {
	s := newTokenTestServer()
	app := protectedApp(s)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired_MalformedToken(t *testing.T) {
	s := newTokenTestServer()
	app := protectedApp(s)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired_WrongIssuer(t *testing.T) {
	s := newTokenTestServer()
	app := protectedApp(s)

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "42",
		"iss": "someone-else",
		"aud": tokenAudience,
		"exp": now.Add(time.Hour).Unix(),
		"iat": now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.config.JWTSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	s := newTokenTestServer()
	app := protectedApp(s)

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "42",
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": now.Add(-time.Hour).Unix(),
		"iat": now.Add(-2 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.config.JWTSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired_RevokedToken(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s := newTokenTestServer()
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := protectedApp(s)

	token, err := s.generateToken(42)
	require.NoError(t, err)

	// Revoke the token's jti, then try to use it.
	_, claims, err := s.parseToken(token)
	require.NoError(t, err)
	jti := claims["jti"].(string)
	require.NoError(t, mr.Set("blacklist:"+jti, "1"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalUserID(t *testing.T) {
	s := newTokenTestServer()
	token, err := s.generateToken(9)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantID     uint
		wantOK     bool
	}{
		{"Anonymous", "", 0, false},
		{"Valid token", "Bearer " + token, 9, true},
		{"Garbage token", "Bearer garbage", 0, false},
		{"Wrong scheme", "Basic " + token, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/feed", func(c *fiber.Ctx) error {
				id, ok := s.optionalUserID(c)
				return c.JSON(fiber.Map{"id": id, "ok": ok})
			})

			req := httptest.NewRequest(http.MethodGet, "/feed", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			var body struct {
				ID uint `json:"id"`
				OK bool `json:"ok"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantID, body.ID)
			assert.Equal(t, tt.wantOK, body.OK)
		})
	}
}
