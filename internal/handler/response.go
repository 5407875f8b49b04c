package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	apperrors "github.com/199-biotechnologies/continuum-clinic-sub000/internal/pkg/errors"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/service"
	"github.com/199-biotechnologies/continuum-clinic-sub000/pkg/auth/manager"
)

var registerValidatorsOnce sync.Once

// RegisterValidators подключает к валидатору gin теги phone и locale и имена полей из json-тегов
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Printf("[Validator] unexpected validator engine, custom tags not registered")
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return entity.ValidatePhone(fl.Field().String())
		})
		_ = v.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
			return entity.IsSupportedLocale(fl.Field().String())
		})
	})
}

// validationMessage формирует читаемое сообщение для первой ошибки валидатора
func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number", field)
	case "locale":
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(entity.Locales, ", "))
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}

// bindJSON разбирает тело запроса и отвечает 400 с первой ошибкой
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(verrs[0])})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

// clientMessage убирает из текста ошибки валидации обёртку sentinel
func clientMessage(err error, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

// respondError сопоставляет ошибку сервиса с HTTP-статусом
func respondError(c *gin.Context, component string, err error) {
	var tokenErr *manager.TokenError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": clientMessage(err, apperrors.ErrValidation)})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, service.ErrInactiveAccount):
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": clientMessage(err, apperrors.ErrConflict)})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrUnauthorized), errors.As(err, &tokenErr) && tokenErr.Type != manager.StoreError:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	default:
		log.Printf("[%s] internal error on %s %s: %v", component, c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
