package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
)

// AllowedImageExtensions are the upload formats the service accepts
var AllowedImageExtensions = []string{"png", "jpg", "jpeg"}

// Validator validates client-side input before any request is issued
type Validator struct {
	validate *validator.Validate
}

// New creates a new Validator with the custom tags registered
func New() *Validator {
	v := validator.New()
	if err := v.RegisterValidation("imagefile", ValidateImageFile); err != nil {
		panic(fmt.Sprintf("failed to register imagefile validation: %v", err))
	}
	return &Validator{validate: v}
}

// Struct validates s and wraps any failure with domain.ErrValidation
func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return fmt.Errorf("%w: %s", domain.ErrValidation, describe(validationErrors))
		}
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// ValidateImageFile checks the file name carries an allowed image extension
func ValidateImageFile(fl validator.FieldLevel) bool {
	return IsImageFile(fl.Field().String())
}

// IsImageFile returns true if name ends in one of AllowedImageExtensions
func IsImageFile(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return false
	}
	for _, allowed := range AllowedImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func describe(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "imagefile":
			parts = append(parts, fmt.Sprintf("%s must be one of %s", fe.Field(), strings.Join(AllowedImageExtensions, ", ")))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
