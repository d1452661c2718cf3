package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type createWidgetCommand struct {
	Name string
}

type listWidgetsQuery struct{}

func TestRegister_SecondHandlerForSameTypeFails(t *testing.T) {
	d := New()

	err := Register(d, func(_ context.Context, cmd createWidgetCommand) (int, error) {
		return 1, nil
	})
	assert.NoError(t, err)

	err = Register(d, func(_ context.Context, cmd createWidgetCommand) (int, error) {
		return 2, nil
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestSend_NoHandlerRegistered(t *testing.T) {
	d := New()

	_, err := Send[int](context.Background(), d, createWidgetCommand{Name: "test"})
	assert.ErrorIs(t, err, ErrNoHandler)
}

func TestSend_InvokesRegisteredHandler(t *testing.T) {
	d := New()

	err := Register(d, func(_ context.Context, cmd createWidgetCommand) (int, error) {
		assert.Equal(t, "lamp", cmd.Name)
		return 42, nil
	})
	assert.NoError(t, err)

	id, err := Send[int](context.Background(), d, createWidgetCommand{Name: "lamp"})
	assert.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestSend_CollectsAllViolationsBeforeFailing(t *testing.T) {
	d := New()
	handlerCalled := false

	RegisterValidator(d, func(cmd createWidgetCommand) []Violation {
		var violations []Violation
		if cmd.Name == "" {
			violations = append(violations, Violation{Field: "name", Message: "Name is required."})
		}
		return violations
	})
	RegisterValidator(d, func(cmd createWidgetCommand) []Violation {
		return []Violation{{Field: "name", Message: "Name must be interesting."}}
	})

	err := Register(d, func(_ context.Context, cmd createWidgetCommand) (int, error) {
		handlerCalled = true
		return 1, nil
	})
	assert.NoError(t, err)

	_, err = Send[int](context.Background(), d, createWidgetCommand{Name: ""})
	assert.Error(t, err)
	assert.False(t, handlerCalled, "handler must not run when validation fails")

	var validationErrors *ValidationErrors
	assert.True(t, errors.As(err, &validationErrors))
	assert.Len(t, validationErrors.Violations, 2)
	assert.Equal(t, []string{"Name is required.", "Name must be interesting."}, validationErrors.Messages())
}

func TestSend_ValidRequestSkipsValidationFailure(t *testing.T) {
	d := New()

	RegisterValidator(d, func(cmd createWidgetCommand) []Violation {
		if cmd.Name == "" {
			return []Violation{{Field: "name", Message: "Name is required."}}
		}
		return nil
	})
	err := Register(d, func(_ context.Context, cmd createWidgetCommand) (int, error) {
		return 7, nil
	})
	assert.NoError(t, err)

	id, err := Send[int](context.Background(), d, createWidgetCommand{Name: "lamp"})
	assert.NoError(t, err)
	assert.Equal(t, 7, id)
}

func TestSend_PropagatesHandlerErrorUnchanged(t *testing.T) {
	d := New()
	handlerErr := errors.New("store unavailable")

	err := Register(d, func(_ context.Context, _ listWidgetsQuery) ([]string, error) {
		return nil, handlerErr
	})
	assert.NoError(t, err)

	_, err = Send[[]string](context.Background(), d, listWidgetsQuery{})
	assert.ErrorIs(t, err, handlerErr)
}

func TestSend_DistinctRequestTypesRouteIndependently(t *testing.T) {
	d := New()

	err := Register(d, func(_ context.Context, _ createWidgetCommand) (int, error) {
		return 1, nil
	})
	assert.NoError(t, err)
	err = Register(d, func(_ context.Context, _ listWidgetsQuery) ([]string, error) {
		return []string{"lamp"}, nil
	})
	assert.NoError(t, err)

	id, err := Send[int](context.Background(), d, createWidgetCommand{Name: "lamp"})
	assert.NoError(t, err)
	assert.Equal(t, 1, id)

	names, err := Send[[]string](context.Background(), d, listWidgetsQuery{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"lamp"}, names)
}
