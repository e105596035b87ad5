package handlers

import (
	"encoding/json"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"estatehub/api/internal/response"
)

// parseID validates the identifier format before any lookup; malformed ids
// never reach the data layer.
func parseID(c *gin.Context) (primitive.ObjectID, bool) {
	id := c.Param("id")
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		response.BadRequest(c, "invalid ID format: "+id)
		return primitive.NilObjectID, false
	}
	return oid, true
}

// payload decodes the request payload into a generic map. Multipart requests
// carry their document in the "data" form value; everything else is plain
// JSON. The returned form is non-nil only for multipart requests.
func payload(c *gin.Context) (map[string]any, *multipart.Form, error) {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, nil, err
		}

		doc := map[string]any{}
		if values := form.Value["data"]; len(values) > 0 {
			if err := json.Unmarshal([]byte(values[0]), &doc); err != nil {
				return nil, nil, err
			}
		}
		return doc, form, nil
	}

	doc := map[string]any{}
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&doc); err != nil {
			return nil, nil, err
		}
	}
	return doc, nil, nil
}

// queryFromBody builds the list filter: keys are taken from the query string
// against the resource allow-list, values are read from the request body.
// This mirrors the platform's list semantics exactly.
func queryFromBody(c *gin.Context, allowed map[string]string) bson.M {
	body := map[string]any{}
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		_ = c.ShouldBindJSON(&body)
	}

	filter := bson.M{}
	for key := range c.Request.URL.Query() {
		path, ok := allowed[key]
		if !ok {
			continue
		}
		if value, present := body[key]; present {
			filter[path] = value
		}
	}
	return filter
}

// filterUpdates keeps only allow-listed fields from a write payload.
func filterUpdates(doc map[string]any, allowed map[string]struct{}) bson.M {
	updates := bson.M{}
	for key, value := range doc {
		if _, ok := allowed[key]; ok {
			updates[key] = value
		}
	}
	return updates
}

// decodeInto round-trips a generic payload into a typed model.
func decodeInto(doc map[string]any, target any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

func floatQuery(c *gin.Context, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		response.BadRequest(c, "invalid numeric value for "+name)
		return nil, false
	}
	return &value, true
}

func dateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, true
		}
	}
	response.BadRequest(c, "invalid date value for "+name)
	return nil, false
}

// requestBaseURL reconstructs the externally visible origin for links
// embedded in outbound mail.
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
