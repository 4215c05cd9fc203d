package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tazhibayda/algojourney/internal/service"
)

type registerReq struct {
	Name     string `json:"name"     binding:"required"`
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary Register user and email a one-time code
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerReq true "register"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /register [post]
func (h *Handler) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	err := h.Auth.Register(c.Request.Context(), service.RegisterInput{
		Name: in.Name, Email: in.Email, Password: in.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "OTP sent to email"})
}

type verifyReq struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp"   binding:"omitempty,otp"`
	Code  string `json:"code"  binding:"omitempty,otp"`
}

// VerifyOtp godoc
// @Summary Confirm registration with the emailed code
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body verifyReq true "email and otp (or code)"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /verify-otp [post]
func (h *Handler) VerifyOtp(c *gin.Context) {
	var in verifyReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	code := in.OTP
	if code == "" {
		code = in.Code
	}
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "otp is required"})
		return
	}
	if err := h.Auth.VerifyOtp(c.Request.Context(), in.Email, code); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}

type resendReq struct {
	Email string `json:"email" binding:"required"`
}

// ResendOtp godoc
// @Summary Send a fresh code to a pending account
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body resendReq true "email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /resend-otp [post]
func (h *Handler) ResendOtp(c *gin.Context) {
	var in resendReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	if err := h.Auth.ResendOtp(c.Request.Context(), in.Email); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to email"})
}

type loginReq struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResp struct {
	Token string `json:"token"`
}

// Login godoc
// @Summary Exchange credentials for a one-hour session token
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginReq true "login"
// @Success 200 {object} loginResp
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	tok, err := h.Auth.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResp{Token: tok})
}

// Home godoc
// @Summary Session owner
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /home [get]
func (h *Handler) Home(c *gin.Context) {
	cl := claimsOf(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome, " + cl.Name,
		"user": gin.H{
			"id": cl.UID, "name": cl.Name, "email": cl.Email,
			"cfAcc": cl.CFAcc, "profile": cl.Profile,
		},
	})
}
