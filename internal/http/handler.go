package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tazhibayda/algojourney/internal/security"
	"github.com/tazhibayda/algojourney/internal/service"
)

// Pinger is a dependency checked by /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Auth    *service.AuthService
	Profile *service.ProfileService
	Potd    *service.PotdService
	Tokens  *security.Issuer
	Health  map[string]Pinger
	Now     func() time.Time
}

func NewHandler(auth *service.AuthService, profile *service.ProfileService, potd *service.PotdService, tokens *security.Issuer) *Handler {
	return &Handler{
		Auth:    auth,
		Profile: profile,
		Potd:    potd,
		Tokens:  tokens,
		Health:  map[string]Pinger{},
		Now:     time.Now,
	}
}

// Healthz godoc
// @Summary Liveness and dependency check
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	for name, p := range h.Health {
		if err := p.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": name + " unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
