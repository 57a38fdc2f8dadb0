package api

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"hoa-backend-go/internal/core"
)

// RegisterValidators adds the domain tags used in request models to gin's
// validator. It is safe to call more than once.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("yearmonth", validYearMonth); err != nil {
		return err
	}
	return v.RegisterValidation("complaint_status", func(fl validator.FieldLevel) bool {
		return core.IsComplaintStatus(fl.Field().String())
	})
}

func validYearMonth(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01", fl.Field().String())
	return err == nil
}
