package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"estatehub/api/internal/models"
	"estatehub/api/internal/repository"
	"estatehub/api/internal/response"
)

func (h HandlerSet) ListUserRequests(c *gin.Context) {
	requests, err := h.requests.FindAll(c.Request.Context())
	if err != nil {
		response.InternalError(c, "could not list user requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"items":   len(requests),
		"data":    gin.H{"userRequests": requests},
	})
}

func (h HandlerSet) GetUserRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	request, err := h.requests.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "no user request found with id: "+c.Param("id"))
			return
		}
		response.InternalError(c, "could not load user request")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    gin.H{"userRequest": request},
	})
}

func (h HandlerSet) CreateUserRequest(c *gin.Context) {
	doc, _, err := payload(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var request models.UserRequest
	if err := decodeInto(doc, &request); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := request.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.requests.Create(c.Request.Context(), request)
	if err != nil {
		response.InternalError(c, "could not create user request")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "success",
		"data":    gin.H{"userRequest": created},
	})
}

func (h HandlerSet) DeleteUserRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.requests.DeleteByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "no user request found with id: "+c.Param("id"))
			return
		}
		response.InternalError(c, "could not delete user request")
		return
	}

	c.Status(http.StatusNoContent)
}
