package controller

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/Itish41/InnovationTracker/lifecycle"
	"github.com/Itish41/InnovationTracker/middleware"
	services "github.com/Itish41/InnovationTracker/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldLabels are the human names used in validation messages.
var fieldLabels = map[string]string{
	"title":                "Title",
	"description":          "Description",
	"problem_statement":    "Problem statement",
	"detailed_description": "Detailed description",
	"category":             "Category",
	"priority":             "Priority",
	"current_stage":        "Current stage",
	"first_name":           "First name",
	"last_name":            "Last name",
	"email":                "Email",
	"type_name":            "Type name",
	"external_url":         "External URL",
}

// lengthRanges pairs min and max so both produce the same message.
var lengthRanges = map[string][2]string{
	"title":             {"10", "200"},
	"description":       {"50", "5000"},
	"problem_statement": {"20", "2000"},
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return label(field) + " is required"
	case "min", "max":
		if r, ok := lengthRanges[field]; ok {
			return fmt.Sprintf("%s must be between %s and %s characters", label(field), r[0], r[1])
		}
		if fe.Tag() == "min" {
			return fmt.Sprintf("%s must be at least %s characters", label(field), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", label(field), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label(field), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return label(field) + " must be a valid email address"
	case "url":
		return label(field) + " must be a valid URL"
	}
	return fmt.Sprintf("%s is invalid (%s)", label(field), fe.Tag())
}

// respondValidation writes the 400 Validation Error body.
func respondValidation(c *gin.Context, details []fieldError) {
	messages := make([]string, len(details))
	for i, d := range details {
		messages[i] = d.Message
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Validation Error",
		"details": details,
		"message": strings.Join(messages, ", "),
	})
}

// validateRequest runs the validate tags of req and writes the error response
// when it fails.
func validateRequest(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		badRequest(c, err.Error())
		return false
	}
	details := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	respondValidation(c, details)
	return false
}

// bindJSON decodes the body. Validation is separate so values can be trimmed
// first.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": message})
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		badRequest(c, fmt.Sprintf("Invalid %s: %q", param, raw))
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors to status codes. action describes the
// failed operation for the generic 500 message.
func (ctl *InitiativeController) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrInitiativeNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": fmt.Sprintf("Initiative with ID %s not found", c.Param("id")),
		})
	case errors.Is(err, services.ErrContactNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": fmt.Sprintf("Contact with ID %s not found", c.Param("contactId")),
		})
	case errors.Is(err, services.ErrAttachmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": fmt.Sprintf("Attachment with ID %s not found", c.Param("attachmentId")),
		})
	case errors.Is(err, services.ErrContactMismatch), errors.Is(err, services.ErrAttachmentMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": capitalize(err.Error())})
	case errors.Is(err, lifecycle.ErrCommentRequired):
		respondValidation(c, []fieldError{{Field: "transition_comment", Message: err.Error()}})
	case errors.Is(err, lifecycle.ErrInvalidStage),
		errors.Is(err, lifecycle.ErrSameStage),
		errors.Is(err, services.ErrUnknownUserType),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrUnsupportedFileType),
		errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrAttachmentSource):
		badRequest(c, capitalize(err.Error()))
	case errors.Is(err, services.ErrSearchUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service Unavailable", "message": "Search is not configured"})
	default:
		ctl.logger.Error(action+" failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to " + action,
		})
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
