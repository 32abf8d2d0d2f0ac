package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gilanghuda/goal-tracker-backend/app/queries"
	"github.com/gilanghuda/goal-tracker-backend/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Controller holds the dependencies shared by every handler.
type Controller struct {
	Users  queries.UserStore
	Tokens queries.TokenStore
	Goals  queries.GoalStore
	Tasks  queries.TaskStore

	Issuer        *utils.TokenIssuer
	Turnstile     utils.TurnstileRule
	HoneypotField string

	Log      *zap.Logger
	Location *time.Location
	Now      func() time.Time

	validate *validator.Validate
}

// New fills defaults for the optional fields of c and prepares its validator.
func New(c Controller) *Controller {
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.Log == nil {
		c.Log = zap.NewNop()
	}
	if c.HoneypotField == "" {
		c.HoneypotField = "company_name"
	}
	ctl := &c
	ctl.validate = newValidator(ctl.now, ctl.Location)
	return ctl
}

// now is the request clock, in UTC at the precision PostgreSQL stores.
func (ctl *Controller) now() time.Time {
	return ctl.Now().UTC().Truncate(time.Microsecond)
}

var errMalformedBody = errors.New("malformed request body")

// fieldErrors maps a request field to its validation messages.
type fieldErrors map[string][]string

func (fe fieldErrors) add(field, message string) {
	fe[field] = append(fe[field], message)
}

func (fe fieldErrors) has(field string) bool {
	return len(fe[field]) > 0
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"message": msg,
	})
}

func validationFailed(c *fiber.Ctx, errs fieldErrors) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": msgValidation,
		"errors":  errs,
	})
}

func (ctl *Controller) internalError(c *fiber.Ctx, what string, err error) error {
	ctl.Log.Error(what,
		zap.Error(err),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
	)
	return message(c, fiber.StatusInternalServerError, msgServerError)
}

// Password-like inputs are passed through untouched.
var untrimmedFields = map[string]bool{
	"password":              true,
	"password_confirmation": true,
	"current_password":      true,
}

// bind decodes the JSON body into dst. String values are trimmed and empty
// strings become null before decoding. It returns the normalized top-level
// fields, so callers can tell an absent key from a null one, and any
// field-level type errors.
func bind(c *fiber.Ctx, dst any) (map[string]json.RawMessage, fieldErrors, error) {
	fields := map[string]json.RawMessage{}
	errs := fieldErrors{}

	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return fields, errs, nil
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, nil, errMalformedBody
	}

	for key, raw := range fields {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			continue
		}
		if !untrimmedFields[key] {
			s = strings.TrimSpace(s)
		}
		if s == "" {
			fields[key] = json.RawMessage("null")
			continue
		}
		normalized, _ := json.Marshal(s)
		fields[key] = normalized
	}

	normalized, err := json.Marshal(fields)
	if err != nil {
		return nil, nil, errMalformedBody
	}
	if err := json.Unmarshal(normalized, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			errs.add(typeErr.Field, fieldMessage(typeErr.Field, "string", ""))
			return fields, errs, nil
		}
		return nil, nil, errMalformedBody
	}
	return fields, errs, nil
}

// bindOrReject is bind plus the standard 400 response on malformed input.
// A nil fields map means the response has been written.
func bindOrReject(c *fiber.Ctx, dst any) (map[string]json.RawMessage, fieldErrors, error) {
	fields, errs, err := bind(c, dst)
	if err != nil {
		return nil, nil, message(c, fiber.StatusBadRequest, msgMalformedBody)
	}
	return fields, errs, nil
}
