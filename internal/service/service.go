// Package service contains the business logic for the Planit API.
// Services validate inputs, enforce membership and ownership rules, and
// orchestrate repo calls. No storage details live here: services depend on
// repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/planit/internal/domain"
	"github.com/pkordes/planit/internal/events"
	"github.com/pkordes/planit/internal/observability"
)

// validate checks the shape of service inputs. Field names in messages come
// from the json tag so they match what API clients sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// checkInput runs struct validation and reports the first failing field as a
// domain.ErrValidation.
func checkInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, fe.Field())
	case "email":
		return fmt.Errorf("%w: %s must be a valid email address", domain.ErrValidation, fe.Field())
	case "gte":
		return fmt.Errorf("%w: %s must be at least %s", domain.ErrValidation, fe.Field(), fe.Param())
	case "lte":
		return fmt.Errorf("%w: %s must be at most %s", domain.ErrValidation, fe.Field(), fe.Param())
	case "gtefield":
		return fmt.Errorf("%w: %s must not be before %s", domain.ErrValidation, fe.Field(), jsonName(fe.Param()))
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", domain.ErrValidation, fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", domain.ErrValidation, fe.Field())
	}
}

// jsonName turns a Go field name from a cross-field tag into the API name.
func jsonName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// Option configures the collaborators shared by the services.
type Option func(*deps)

type deps struct {
	events events.Publisher
	logger *slog.Logger
	now    func() time.Time
}

func newDeps(opts []Option) deps {
	d := deps{
		events: events.NopPublisher{},
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// WithPublisher sends domain events to p after each successful change.
func WithPublisher(p events.Publisher) Option {
	return func(d *deps) {
		if p != nil {
			d.events = p
		}
	}
}

// WithLogger sets the logger used for non-fatal failures.
func WithLogger(l *slog.Logger) Option {
	return func(d *deps) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClock overrides the time source stamped on events.
func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.now = now }
}

// publish delivers e. The change it describes is already stored, so a
// delivery failure is logged and counted rather than returned.
func (d deps) publish(ctx context.Context, e events.Event) {
	e.OccurredAt = d.now()
	if err := d.events.Publish(ctx, e); err != nil {
		observability.RecordPublishFailure()
		d.logger.WarnContext(ctx, "publish domain event",
			slog.String("type", string(e.Type)),
			slog.String("trip_id", e.TripID.String()),
			slog.String("error", err.Error()),
		)
	}
}
