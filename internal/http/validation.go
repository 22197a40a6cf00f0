package http

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"village/internal/domain"
)

var registerOnce sync.Once

// registerValidators adds the enum tags used by request bodies to gin's validator.
func registerValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding validator %T", binding.Validator.Engine())
			return
		}
		rules := map[string]validator.Func{
			"condo_role": func(fl validator.FieldLevel) bool {
				_, perr := domain.ParseRole(fl.Field().String())
				return perr == nil
			},
			"reservation_status": func(fl validator.FieldLevel) bool {
				_, perr := domain.ParseReservationStatus(fl.Field().String())
				return perr == nil
			},
			"ticket_status": func(fl validator.FieldLevel) bool {
				_, perr := domain.ParseTicketStatus(fl.Field().String())
				return perr == nil
			},
		}
		for tag, fn := range rules {
			if err = v.RegisterValidation(tag, fn); err != nil {
				return
			}
		}
	})
	return err
}

// validateVar checks a single value against a tag, for fields that are not plain
// struct members (patch fields).
func validateVar(field string, value any, tag string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.Var(value, tag); err != nil {
		return fmt.Errorf("%w: invalid %s", domain.ErrValidation, field)
	}
	return nil
}
