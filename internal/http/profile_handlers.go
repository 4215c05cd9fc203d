package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tazhibayda/algojourney/internal/domain"
	"github.com/tazhibayda/algojourney/internal/service"
)

// kanbanEmail resolves whose board is addressed: the token owner when the
// route is guarded, otherwise the supplied email.
func kanbanEmail(c *gin.Context, supplied string) string {
	if cl := claimsOf(c); cl != nil {
		return cl.Email
	}
	return strings.TrimSpace(supplied)
}

// GetKanban godoc
// @Summary Read a Kanban board
// @Tags kanban
// @Produce json
// @Param email query string false "board owner (ignored when authenticated)"
// @Success 200 {object} domain.Kanban
// @Failure 400 {object} map[string]string
// @Router /kanban [get]
func (h *Handler) GetKanban(c *gin.Context) {
	email := kanbanEmail(c, c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	k, err := h.Profile.Kanban(c.Request.Context(), email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, k)
}

type kanbanReq struct {
	Email     string   `json:"email"`
	Pending   []string `json:"pending"`
	Progress  []string `json:"progress"`
	Completed []string `json:"completed"`
}

// PutKanban godoc
// @Summary Replace a Kanban board
// @Tags kanban
// @Accept json
// @Produce json
// @Param payload body kanbanReq true "lists"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /kanban [put]
func (h *Handler) PutKanban(c *gin.Context) {
	var in kanbanReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	email := kanbanEmail(c, in.Email)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	err := h.Profile.ReplaceKanban(c.Request.Context(), email, domain.Kanban{
		Pending: in.Pending, Progress: in.Progress, Completed: in.Completed,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated"})
}

// GetTemplates godoc
// @Summary Code templates by language
// @Tags template
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /template [get]
func (h *Handler) GetTemplates(c *gin.Context) {
	m, err := h.Profile.Templates(c.Request.Context(), c.GetString(uidKey))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

type templateReq struct {
	Language string `json:"language" binding:"required"`
	Code     string `json:"code"`
}

// PutTemplate godoc
// @Summary Save the template of one language
// @Tags template
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body templateReq true "language and code"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /template [put]
func (h *Handler) PutTemplate(c *gin.Context) {
	var in templateReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	if err := h.Profile.SaveTemplate(c.Request.Context(), c.GetString(uidKey), in.Language, in.Code); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Saved"})
}

// GetPomodoro godoc
// @Summary Weekly and daily focus minutes
// @Tags pomodoro
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string][]int
// @Failure 404 {object} map[string]string
// @Router /pomodoro [get]
func (h *Handler) GetPomodoro(c *gin.Context) {
	p, err := h.Profile.Pomodoro(c.Request.Context(), c.GetString(uidKey))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"weekly": p.Weekly, "daily": p.Daily})
}

type pomodoroReq struct {
	Minutes   *int `json:"minutes"   binding:"required"`
	WeekIndex *int `json:"weekIndex" binding:"required"`
	DayIndex  *int `json:"dayIndex"  binding:"required"`
}

// PutPomodoro godoc
// @Summary Record focus minutes
// @Tags pomodoro
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body pomodoroReq true "minutes with week and day buckets"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /pomodoro [put]
func (h *Handler) PutPomodoro(c *gin.Context) {
	var in pomodoroReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	err := h.Profile.AddPomodoro(c.Request.Context(), c.GetString(uidKey), service.PomodoroInput{
		Minutes: *in.Minutes, WeekIndex: *in.WeekIndex, DayIndex: *in.DayIndex,
	}, h.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated"})
}

type handleReq struct {
	Handle string `json:"handle" binding:"required"`
}

// LinkHandle godoc
// @Summary Link a Codeforces handle
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body handleReq true "handle"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /profile/handle [put]
func (h *Handler) LinkHandle(c *gin.Context) {
	var in handleReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	tok, err := h.Profile.LinkHandle(c.Request.Context(), c.GetString(uidKey), in.Handle)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok, "cfAcc": strings.TrimSpace(in.Handle)})
}

// GetPotd godoc
// @Summary Problems of the day around the user's rating
// @Tags potd
// @Security BearerAuth
// @Produce json
// @Param handle query string false "Codeforces handle (defaults to the linked one)"
// @Success 200 {object} service.Potd
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /potd [get]
func (h *Handler) GetPotd(c *gin.Context) {
	handle := strings.TrimSpace(c.Query("handle"))
	if handle == "" {
		if cl := claimsOf(c); cl != nil {
			handle = cl.CFAcc
		}
	}
	if handle == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "handle is required"})
		return
	}
	p, err := h.Potd.Pick(c.Request.Context(), handle)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
