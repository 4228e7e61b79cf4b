package handler

import (
	"refillmap.com/gamification/pkg/validator"
)

func formatValidationError(err error) string {
	return validator.FormatValidationError(err)
}
