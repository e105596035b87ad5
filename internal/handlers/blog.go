package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"estatehub/api/internal/models"
	"estatehub/api/internal/repository"
	"estatehub/api/internal/response"
	"estatehub/api/internal/upload"
)

func (h HandlerSet) ListBlogs(c *gin.Context) {
	filter := queryFromBody(c, blogQueryFields)

	blogs, err := h.blogs.Find(c.Request.Context(), filter)
	if err != nil {
		response.InternalError(c, "could not list blogs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"items":   len(blogs),
		"data":    gin.H{"blogs": blogs},
	})
}

func (h HandlerSet) GetBlog(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	blog, err := h.blogs.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "no such blog found with id: "+c.Param("id"))
			return
		}
		response.InternalError(c, "could not load blog")
		return
	}

	if err := h.blogs.IncrementViews(c.Request.Context(), id); err != nil {
		h.log.Warn().Err(err).Str("blog_id", c.Param("id")).Msg("view count bump failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    gin.H{"blog": blog},
	})
}

func (h HandlerSet) CreateBlog(c *gin.Context) {
	doc, form, err := payload(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if form != nil {
		urls, err := h.uploads.UploadForm(c.Request.Context(), form, upload.BlogSlots, "blogs")
		if err != nil {
			h.uploadError(c, err)
			return
		}
		if v := urls["coverImg"]; len(v) > 0 {
			doc["coverImg"] = v[0]
		}
	}

	var blog models.Blog
	if err := decodeInto(doc, &blog); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := blog.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.blogs.Create(c.Request.Context(), blog)
	if err != nil {
		response.InternalError(c, "could not create blog")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "success",
		"data":    gin.H{"blog": created},
	})
}

func (h HandlerSet) UpdateBlog(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	doc, form, err := payload(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updates := filterUpdates(doc, blogUpdateFields)

	if form != nil {
		urls, err := h.uploads.UploadForm(c.Request.Context(), form, upload.BlogSlots, "blogs")
		if err != nil {
			h.uploadError(c, err)
			return
		}
		if v := urls["coverImg"]; len(v) > 0 {
			updates["coverImg"] = v[0]
		}
	}

	if name, ok := updates["name"]; ok {
		if s, _ := name.(string); s == "" {
			response.BadRequest(c, "blog needs a name")
			return
		}
	}

	blog, err := h.blogs.UpdateByID(c.Request.Context(), id, updates)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "no such blog found with id: "+c.Param("id"))
			return
		}
		response.InternalError(c, "could not update blog")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    gin.H{"blog": blog},
	})
}

func (h HandlerSet) DeleteBlog(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.blogs.DeleteByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "no such blog found with id: "+c.Param("id"))
			return
		}
		response.InternalError(c, "could not delete blog")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success"})
}
