package config

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	converrors "github.com/alexisbeaulieu97/converge/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern     = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	resourceIDPattern = regexp.MustCompile(`^[a-z0-9_]+$`)
	fileModePattern   = regexp.MustCompile(`^0?[0-7]{3}$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("resource_id", func(fl validator.FieldLevel) bool {
			return resourceIDPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("file_mode", func(fl validator.FieldLevel) bool {
			return fileModePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateManifest performs schema and cross-resource validation.
func ValidateManifest(manifest *Manifest) error {
	if manifest == nil {
		return converrors.NewValidationError("manifest", "manifest is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(manifest); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]struct{}, len(manifest.Resources))
	for i, res := range manifest.Resources {
		if _, exists := seen[res.ID]; exists {
			return converrors.NewValidationError(fieldForResource(i, "id"), fmt.Sprintf("duplicate resource id %q", res.ID), nil)
		}
		seen[res.ID] = struct{}{}

		if err := ValidateResource(res); err != nil {
			return err
		}
	}

	return nil
}

// ValidateResource validates a single resource independent of the rest of
// the manifest.
func ValidateResource(res Resource) error {
	v := validatorInstance()
	if err := v.Struct(res); err != nil {
		return convertValidationError(err)
	}

	switch res.Type {
	case "file":
		if res.File == nil {
			return converrors.NewValidationError(res.ID, "file configuration is required", nil)
		}
		if err := v.Struct(res.File); err != nil {
			return convertValidationError(err)
		}
	case "symlink":
		if res.Symlink == nil {
			return converrors.NewValidationError(res.ID, "symlink configuration is required", nil)
		}
		if err := v.Struct(res.Symlink); err != nil {
			return convertValidationError(err)
		}
	case "line_in_file":
		if res.LineInFile == nil {
			return converrors.NewValidationError(res.ID, "line_in_file configuration is required", nil)
		}
		if err := v.Struct(res.LineInFile); err != nil {
			return convertValidationError(err)
		}
	case "command":
		if res.Command == nil {
			return converrors.NewValidationError(res.ID, "command configuration is required", nil)
		}
		if err := v.Struct(res.Command); err != nil {
			return convertValidationError(err)
		}
	case "repo":
		if res.Repo == nil {
			return converrors.NewValidationError(res.ID, "repo configuration is required", nil)
		}
		if err := v.Struct(res.Repo); err != nil {
			return convertValidationError(err)
		}
	default:
		return converrors.NewValidationError(res.ID, fmt.Sprintf("unknown resource type %q", res.Type), nil)
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		message := fmt.Sprintf("failed %q validation", first.Tag())
		return converrors.NewValidationError(first.Namespace(), message, err)
	}

	return converrors.NewValidationError("", err.Error(), err)
}

func fieldForResource(index int, field string) string {
	return fmt.Sprintf("resources[%d].%s", index, field)
}
