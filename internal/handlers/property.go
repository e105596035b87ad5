package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"estatehub/api/internal/models"
	"estatehub/api/internal/repository"
	"estatehub/api/internal/response"
	"estatehub/api/internal/service"
	"estatehub/api/internal/upload"
)

const minSearchTermLength = 4

func (h HandlerSet) ListProperties(c *gin.Context) {
	filter := queryFromBody(c, propertyQueryFields)

	properties, err := h.properties.Find(c.Request.Context(), filter)
	if err != nil {
		response.InternalError(c, "could not list properties")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"items":   len(properties),
		"data":    gin.H{"properties": properties},
	})
}

func (h HandlerSet) GetProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	property, err := h.properties.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "no such property found with id: "+c.Param("id"))
			return
		}
		response.InternalError(c, "could not load property")
		return
	}

	// View counting is best effort; a failed bump never fails the read.
	if err := h.properties.IncrementViews(c.Request.Context(), id); err != nil {
		h.log.Warn().Err(err).Str("property_id", c.Param("id")).Msg("view count bump failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    gin.H{"property": property},
	})
}

func (h HandlerSet) CreateProperty(c *gin.Context) {
	doc, form, err := payload(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if form != nil {
		urls, err := h.uploads.UploadForm(c.Request.Context(), form, upload.PropertySlots, "properties")
		if err != nil {
			h.uploadError(c, err)
			return
		}
		applyPropertyImages(doc, urls)
	}

	var property models.Property
	if err := decodeInto(doc, &property); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := property.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.properties.Create(c.Request.Context(), property)
	if err != nil {
		response.InternalError(c, "could not create property")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "success",
		"data":    gin.H{"property": created},
	})
}

func (h HandlerSet) UpdateProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	doc, form, err := payload(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updates := filterUpdates(doc, propertyUpdateFields)

	if form != nil {
		urls, err := h.uploads.UploadForm(c.Request.Context(), form, upload.PropertySlots, "properties")
		if err != nil {
			h.uploadError(c, err)
			return
		}
		// Submitted slots overwrite via dot paths so the others keep their
		// stored URLs; a whole-document images value would clash with them.
		if len(urls) > 0 {
			delete(updates, "images")
			if v := urls["heroImg"]; len(v) > 0 {
				updates["images.heroImg"] = v[0]
			}
			if v := urls["gallery"]; len(v) > 0 {
				updates["images.gallery"] = v
			}
			if v := urls["floorMap"]; len(v) > 0 {
				updates["images.floorMap"] = v[0]
			}
		}
	}

	if err := validatePropertyUpdate(updates); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	property, err := h.properties.UpdateByID(c.Request.Context(), id, updates)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "no such property found with id: "+c.Param("id"))
			return
		}
		response.InternalError(c, "could not update property")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    gin.H{"property": property},
	})
}

func (h HandlerSet) DeleteProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.properties.DeleteByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "no such property found with id: "+c.Param("id"))
			return
		}
		response.InternalError(c, "could not delete property")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func (h HandlerSet) SearchProperties(c *gin.Context) {
	term := strings.TrimSpace(c.Query("search"))
	if len(term) < minSearchTermLength {
		response.BadRequest(c, fmt.Sprintf("search term must be at least %d characters", minSearchTermLength))
		return
	}

	search := repository.PropertySearch{Term: term}

	ranges := []struct {
		name   string
		target **float64
	}{
		{"minPrice", &search.MinPrice},
		{"maxPrice", &search.MaxPrice},
		{"minYield", &search.MinYield},
		{"maxYield", &search.MaxYield},
		{"minArea", &search.MinArea},
		{"maxArea", &search.MaxArea},
		{"minIndex", &search.MinIndex},
		{"maxIndex", &search.MaxIndex},
	}
	for _, r := range ranges {
		value, ok := floatQuery(c, r.name)
		if !ok {
			return
		}
		*r.target = value
	}

	completionDate, ok := dateQuery(c, "completionDate")
	if !ok {
		return
	}
	search.CompletionDate = completionDate

	properties, err := h.properties.Search(c.Request.Context(), search)
	if err != nil {
		response.InternalError(c, "search failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"items":   len(properties),
		"data":    gin.H{"properties": properties},
	})
}

func applyPropertyImages(doc map[string]any, urls map[string][]string) {
	if len(urls) == 0 {
		return
	}
	images, _ := doc["images"].(map[string]any)
	if images == nil {
		images = map[string]any{}
	}
	if v := urls["heroImg"]; len(v) > 0 {
		images["heroImg"] = v[0]
	}
	if v := urls["gallery"]; len(v) > 0 {
		images["gallery"] = v
	}
	if v := urls["floorMap"]; len(v) > 0 {
		images["floorMap"] = v[0]
	}
	doc["images"] = images
}

// validatePropertyUpdate re-runs the schema constraints on the fields a
// partial update touches.
func validatePropertyUpdate(updates map[string]any) error {
	if name, ok := updates["name"]; ok {
		if s, _ := name.(string); s == "" {
			return errors.New("property name missing")
		}
	}

	if t, ok := updates["type"]; ok {
		switch models.PropertyType(fmt.Sprint(t)) {
		case models.PropertyTypeResidential, models.PropertyTypeCommercial, models.PropertyTypeVilla, models.PropertyTypeApartment:
		default:
			return errors.New("invalid property type")
		}
	}

	if o, ok := updates["occupancy"]; ok {
		switch models.Occupancy(fmt.Sprint(o)) {
		case models.OccupancyVacant, models.OccupancyTenant, models.OccupancyOwned:
		default:
			return errors.New("invalid occupancy")
		}
	}

	if loc, ok := updates["location"]; ok {
		location, ok := loc.(map[string]any)
		if !ok {
			return errors.New("invalid location")
		}
		if _, ok := location["lat"].(float64); !ok {
			return errors.New("latitude is required")
		}
		if _, ok := location["long"].(float64); !ok {
			return errors.New("longitude is required")
		}
		if addr, _ := location["address"].(string); addr == "" {
			return errors.New("address is required")
		}
	}

	return nil
}

func (h HandlerSet) uploadError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotImage) || strings.Contains(err.Error(), "too many files") {
		response.BadRequest(c, err.Error())
		return
	}
	h.log.Error().Err(err).Msg("file upload failed")
	response.InternalError(c, "file upload failed")
}
