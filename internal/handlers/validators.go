package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Budget periods are either a year-quarter ("2026-Q1") or a year-month
// ("2026-03") tag.
var periodPattern = regexp.MustCompile(`^\d{4}-(Q[1-4]|0[1-9]|1[0-2])$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("budgetperiod", func(fl validator.FieldLevel) bool {
			return periodPattern.MatchString(fl.Field().String())
		})
	}
}
