package providers

import (
	"errors"
	"studymate/internal/structures"
	"time"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}
	if cv.conf.Timezone != "" {
		if _, err := time.LoadLocation(cv.conf.Timezone); err != nil {
			return err
		}
	}
	if cv.conf.Reminder.Enabled && cv.conf.Reminder.CheckInterval <= 0 {
		return errors.New("reminder.checkInterval must be positive when reminders are enabled")
	}
	return nil
}
