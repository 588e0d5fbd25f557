package handlers

import (
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"

	"dotmd/internal/middleware"
	"dotmd/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Store failures are never detailed to callers; validation failures
// always are.
const genericErrorMessage = "Something went wrong. Please try again."

func init() {
	// Report validation failures against json field names, not Go
	// struct field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	}
}

// CurrentUser pulls the session user loaded by the middleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(middleware.CheckUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// ServerError logs the real cause and answers with the generic message.
func ServerError(c *gin.Context, err error) {
	log.Printf("handler error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": genericErrorMessage})
}

// FieldErrors answers a field-scoped validation failure.
func FieldErrors(c *gin.Context, fields map[string][]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "validation failed",
		"fields": fields,
	})
}

// BindingError converts a gin binding failure into the field-scoped
// validation shape when possible, or a flat bad-request otherwise.
func BindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if ok := asValidationErrors(err, &verrs); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
	}
	FieldErrors(c, fields)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = verrs
	return true
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "Invalid ID format"
	default:
		return "is invalid"
	}
}
