package controllers

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const retryAfterSeconds = "2"

// StatusCode maps an error's kind to the HTTP status returned to clients.
func StatusCode(err error) int {
	switch app_errors.KindOf(err) {
	case app_errors.KindValidation:
		return http.StatusBadRequest
	case app_errors.KindUnauthorized:
		return http.StatusUnauthorized
	case app_errors.KindForbidden:
		return http.StatusForbidden
	case app_errors.KindNotFound:
		return http.StatusNotFound
	case app_errors.KindConflict:
		return http.StatusConflict
	case app_errors.KindPaymentDeclined:
		return http.StatusPaymentRequired
	case app_errors.KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	case app_errors.KindNotConfigured:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// WriteError aborts the request with the status matching err. Internal errors
// are logged and hidden from the client.
func WriteError(c *gin.Context, log logger.Log, err error) {
	code := StatusCode(err)
	_ = c.Error(err)

	switch code {
	case http.StatusInternalServerError:
		log.ErrorErr("request failed", err, "path", c.FullPath())
		c.AbortWithStatusJSON(code, gin.H{"error": http.StatusText(code)})
		return
	case http.StatusServiceUnavailable:
		c.Header("Retry-After", retryAfterSeconds)
	}
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}

// WriteBindError answers a request whose body or query failed to bind.
func WriteBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[jsonFieldName(fe.Field())] = fieldMessage(fe)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "malformed json"})
	case errors.As(err, &typeErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid value for %s", typeErr.Field)})
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid", "uuid4":
		return "must be a uuid"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "is invalid"
}

// jsonFieldName turns a Go field name such as StudentID into student_id.
func jsonFieldName(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UUIDParam parses a path parameter, answering 400 when it is malformed.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// UUIDQuery parses a required query parameter.
func UUIDQuery(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
