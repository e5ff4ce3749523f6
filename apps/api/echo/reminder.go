package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/acadhub/backend/core"
	"github.com/acadhub/backend/core/reminder"
)

type reminderApi struct {
	notifier   *reminder.Notifier
	conf       *core.Config
	validate   *validator.Validate
	translator ut.Translator
}

func registerReminderAPI(g *echo.Group, deps ServerDeps) {
	api := reminderApi{
		notifier:   deps.Notifier,
		conf:       deps.Conf,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	rg := g.Group("/reminders")
	rg.POST("/check", api.check)
}

type (
	// CheckRequest is the optional trigger body. Absent fields fall back to
	// the configured defaults.
	CheckRequest struct {
		TimezoneOffset *float64 `json:"timezoneOffset" validate:"omitempty,gte=-12,lte=14"`
		TimeFormat     string   `json:"timeFormat" validate:"omitempty,timeformat"`
	}

	CheckResponse struct {
		Success bool `json:"success"`
		reminder.CheckResult
	}
)

// Handlers

func (api *reminderApi) check(ctx echo.Context) error {
	var data CheckRequest
	if ctx.Request().ContentLength > 0 {
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to CheckRequest")
		}
		if err := api.validate.Struct(&data); err != nil {
			return err
		}
	}

	opts := reminder.DefaultCheckOptions(api.conf)
	if data.TimezoneOffset != nil {
		opts.TZOffsetHours = *data.TimezoneOffset
	}
	if data.TimeFormat != "" {
		opts.TimeFormat = data.TimeFormat
	}

	res, err := api.notifier.CheckDue(ctx.Request().Context(), opts)
	if err != nil {
		return errors.Wrap(err, "checking due reminders")
	}

	return ctx.JSON(http.StatusOK, CheckResponse{Success: true, CheckResult: res})
}
