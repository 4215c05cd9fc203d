package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tazhibayda/algojourney/internal/log"
	"github.com/tazhibayda/algojourney/internal/service"
)

var statusOf = []struct {
	err    error
	status int
}{
	{service.ErrInvalidInput, http.StatusBadRequest},
	{service.ErrConflict, http.StatusBadRequest},
	{service.ErrAlreadyVerified, http.StatusBadRequest},
	{service.ErrBadCredentials, http.StatusUnauthorized},
	{service.ErrBadCode, http.StatusUnauthorized},
	{service.ErrUnverified, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrHandleNotFound, http.StatusNotFound},
	{service.ErrExpired, http.StatusGone},
	{service.ErrNotEnoughProblems, http.StatusUnprocessableEntity},
	{service.ErrMail, http.StatusInternalServerError},
	{service.ErrUpstream, http.StatusBadGateway},
}

// writeError maps service errors to a status and a short message. Anything
// unrecognised is logged and reported as an internal error.
func writeError(c *gin.Context, err error) {
	for _, m := range statusOf {
		if !errors.Is(err, m.err) {
			continue
		}
		msg := m.err.Error()
		if m.err == service.ErrInvalidInput {
			msg = err.Error()
		}
		if m.status >= http.StatusInternalServerError {
			log.Ctx(c.Request.Context()).Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
		}
		c.JSON(m.status, gin.H{"error": msg})
		return
	}
	log.Ctx(c.Request.Context()).Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
}
