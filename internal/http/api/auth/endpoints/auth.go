package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/http/api"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/http/api/auth/packets"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/http/middleware"
)

// AuthPublicModule mounts the public login endpoint (/auth/login)
func AuthPublicModule(jwtSecret, passwordHash string) api.Module {
	ctl := newAccountManager(jwtSecret, passwordHash)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/auth/login", ctl.adminLogin)
	})
}

type AccountManager struct {
	jwtSecret    string
	passwordHash string
}

func newAccountManager(secret, passwordHash string) *AccountManager {
	return &AccountManager{jwtSecret: secret, passwordHash: passwordHash}
}

// POST /api/auth/login
func (a *AccountManager) adminLogin(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if !middleware.CheckPassword(a.passwordHash, request.Password) {
		log.Warn().Str("client_ip", ctx.ClientIP()).Msg("admin login failed")
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "invalid password"}
	}

	token, err := middleware.GenerateJWT(middleware.AdminSubject, a.jwtSecret)
	if err != nil {
		log.Error().Err(err).Msg("could not generate token")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}

	return packets.TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(middleware.TokenTTL).UTC().Format(time.RFC3339),
	}, nil
}
