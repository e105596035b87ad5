package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"estatehub/api/internal/middleware"
	"estatehub/api/internal/models"
	"estatehub/api/internal/repository"
	"estatehub/api/internal/response"
	"estatehub/api/internal/security"
	"estatehub/api/internal/service"
)

type signupRequest struct {
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Password        string          `json:"password"`
	PasswordConfirm string          `json:"passwordConfirm"`
	Role            models.UserRole `json:"role"`
}

func (h HandlerSet) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), service.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Role:            req.Role,
	})
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	h.sendSessionToken(c, user, http.StatusCreated)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h HandlerSet) Login(c *gin.Context) {
	// an absent body means absent credentials, not a malformed request
	var req loginRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrMissingCredentials) || errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.InternalError(c, "login failed")
		return
	}

	h.sendSessionToken(c, user, http.StatusOK)
}

// Logout overwrites the session cookie with a dummy value and a near-
// immediate expiry; the token itself stays valid until natural expiry.
func (h HandlerSet) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "loggedout", 2, "/", "", h.cfg.Environment == "production", true)
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h HandlerSet) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.authService.ForgotPassword(c.Request.Context(), req.Email, requestBaseURL(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownEmail):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrMailDelivery):
			response.InternalError(c, err.Error())
		default:
			response.InternalError(c, "could not start password reset")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "token sent to email",
	})
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (h HandlerSet) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.ResetPassword(c.Request.Context(), c.Param("token"), req.Password, req.PasswordConfirm)
	if err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			response.BadRequest(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	h.sendSessionToken(c, user, http.StatusOK)
}

type updatePasswordRequest struct {
	Password           string `json:"password"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

func (h HandlerSet) UpdateMyPassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "you are not logged in")
		return
	}

	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.authService.UpdatePassword(c.Request.Context(), user.ID, req.Password, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			response.Unauthorized(c, err.Error())
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			response.Unauthorized(c, "the user no longer exists")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	token, err := security.GenerateSessionToken(h.cfg.Security.JWTSecret, updated.ID.Hex(), h.cfg.Security.JWTTTL)
	if err != nil {
		response.InternalError(c, "could not issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"token":  token,
	})
}

func (h HandlerSet) GoogleLogin(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "authorization code missing")
		return
	}

	user, err := h.authService.GoogleLogin(c.Request.Context(), code)
	if err != nil {
		h.log.Error().Err(err).Msg("google login failed")
		response.Unauthorized(c, "google authentication failed")
		return
	}

	h.sendSessionToken(c, user, http.StatusCreated)
}

// sendSessionToken is the single issuance path every successful
// authentication funnels through: http-only cookie plus body token, with the
// password never serialized.
func (h HandlerSet) sendSessionToken(c *gin.Context, user models.User, statusCode int) {
	token, err := security.GenerateSessionToken(h.cfg.Security.JWTSecret, user.ID.Hex(), h.cfg.Security.JWTTTL)
	if err != nil {
		response.InternalError(c, "could not issue token")
		return
	}

	secure := h.cfg.Environment == "production"
	c.SetCookie(middleware.SessionCookie, token, int(h.cfg.Security.CookieTTL.Seconds()), "/", "", secure, true)

	c.JSON(statusCode, gin.H{
		"message": "success",
		"token":   token,
		"data": gin.H{
			"user": user,
		},
	})
}
