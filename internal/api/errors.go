package api

import (
	"errors"   // Error inspection
	"fmt"      // Message formatting
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing
	"strings"  // String manipulation

	"finance_tracker/internal/apperr"     // Error taxonomy
	"finance_tracker/internal/middleware" // Request ids

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/go-playground/validator/v10" // Binding validation errors
	"github.com/sirupsen/logrus"             // Logging library
)

// FieldError is one entry of a structured validation detail
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// respondError writes {detail} with the status matching the error kind.
// Internal errors are logged and their message hidden.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"path":       c.FullPath(),               // Route
			"request_id": middleware.GetRequestID(c), // Correlation id
		}).WithError(err).Error("Request failed")
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": apperr.MessageOf(err)})
}

// respondBindError turns gin binding failures into a 400 with per-field details
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, len(verrs))
		for i, fe := range verrs {
			details[i] = FieldError{Field: jsonName(fe.Field()), Message: fieldMessage(fe)}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": details})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field is required"
	case "email":
		return "Must be a valid email address"
	case "min", "gte":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("Failed on '%s' validation", fe.Tag())
	}
}

// jsonName converts a Go field name like CategoryID into category_id
func jsonName(field string) string {
	var b strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 && (runes[i-1] < 'A' || runes[i-1] > 'Z' || (i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z')) {
			b.WriteByte('_')
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
