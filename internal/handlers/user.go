package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"estatehub/api/internal/middleware"
	"estatehub/api/internal/models"
	"estatehub/api/internal/repository"
	"estatehub/api/internal/response"
)

func (h HandlerSet) ListUsers(c *gin.Context) {
	filter := queryFromBody(c, userQueryFields)

	users, err := h.users.Find(c.Request.Context(), filter)
	if err != nil {
		response.InternalError(c, "could not list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"items":   len(users),
		"data":    gin.H{"users": users},
	})
}

func (h HandlerSet) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "no such user found with id: "+c.Param("id"))
			return
		}
		response.InternalError(c, "could not load user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    gin.H{"user": user},
	})
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	doc, _, err := payload(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updates := filterUpdates(doc, userUpdateFields)
	if err := validateUserUpdate(updates); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.UpdateByID(c.Request.Context(), id, updates)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.NotFound(c, "no such user found with id: "+c.Param("id"))
		case errors.Is(err, repository.ErrDuplicateEmail):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, "could not update user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    gin.H{"user": user},
	})
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.users.DeleteByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "no such user found with id: "+c.Param("id"))
			return
		}
		response.InternalError(c, "could not delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func (h HandlerSet) GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "you are not logged in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    gin.H{"user": user},
	})
}

func (h HandlerSet) UpdateMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "you are not logged in")
		return
	}

	doc, _, err := payload(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, hasPassword := doc["password"]; hasPassword {
		response.BadRequest(c, "this route is not for password updates")
		return
	}
	if _, hasConfirm := doc["passwordConfirm"]; hasConfirm {
		response.BadRequest(c, "this route is not for password updates")
		return
	}

	updates := filterUpdates(doc, userSelfUpdateFields)
	if err := validateUserUpdate(updates); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.users.UpdateByID(c.Request.Context(), user.ID, updates)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.NotFound(c, "no such user found with id: "+user.ID.Hex())
		case errors.Is(err, repository.ErrDuplicateEmail):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, "could not update profile")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    gin.H{"user": updated},
	})
}

func (h HandlerSet) DeleteMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "you are not logged in")
		return
	}

	if err := h.users.DeleteByID(c.Request.Context(), user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "no such user found with id: "+user.ID.Hex())
			return
		}
		response.InternalError(c, "could not delete account")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func validateUserUpdate(updates map[string]any) error {
	if email, ok := updates["email"]; ok {
		s, _ := email.(string)
		if !models.ValidEmail(s) {
			return errors.New("invalid email")
		}
	}

	if role, ok := updates["role"]; ok {
		switch models.UserRole(toString(role)) {
		case models.UserRoleAdmin, models.UserRoleEditor, models.UserRoleAuthor, models.UserRoleSupport, models.UserRoleViewer:
		default:
			return errors.New("invalid role")
		}
	}

	if name, ok := updates["name"]; ok {
		if s, _ := name.(string); s == "" {
			return errors.New("user name missing")
		}
	}

	return nil
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}
