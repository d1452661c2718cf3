package dispatch

import (
	"context"
	"fmt"
	"reflect"
)

// Dispatcher routes request values (commands and queries) to the single
// handler registered for their type. Validators bound to the same type run
// first and every violation is collected before the request is rejected.
//
// Registration happens once during process startup and lookups are keyed by
// the request's concrete type, so a typo can never silently route a request
// to nothing.
type Dispatcher struct {
	handlers   map[reflect.Type]handlerFunc
	validators map[reflect.Type][]validatorFunc
}

type handlerFunc func(ctx context.Context, request any) (any, error)

type validatorFunc func(request any) []Violation

func New() *Dispatcher {
	return &Dispatcher{
		handlers:   make(map[reflect.Type]handlerFunc),
		validators: make(map[reflect.Type][]validatorFunc),
	}
}

func requestType[Req any]() reflect.Type {
	return reflect.TypeOf((*Req)(nil)).Elem()
}

// Register binds handle as the one handler for requests of type Req.
// A second registration for the same type is rejected.
func Register[Req any, Res any](d *Dispatcher, handle func(ctx context.Context, request Req) (Res, error)) error {
	t := requestType[Req]()
	if _, exists := d.handlers[t]; exists {
		return fmt.Errorf("handler already registered for request type %s", t)
	}
	d.handlers[t] = func(ctx context.Context, request any) (any, error) {
		return handle(ctx, request.(Req))
	}
	return nil
}

// RegisterValidator adds a pure validation rule set for requests of type Req.
// Multiple validators may be registered for one type; all of them run.
func RegisterValidator[Req any](d *Dispatcher, validate func(request Req) []Violation) {
	t := requestType[Req]()
	d.validators[t] = append(d.validators[t], func(request any) []Violation {
		return validate(request.(Req))
	})
}

// Send validates and dispatches request, returning the handler's result.
// Validation violations from every registered validator are collected into a
// single *ValidationErrors; the handler is never invoked in that case.
// Handler errors are propagated unchanged.
func Send[Res any](ctx context.Context, d *Dispatcher, request any) (Res, error) {
	var zero Res

	t := reflect.TypeOf(request)
	var violations []Violation
	for _, validate := range d.validators[t] {
		violations = append(violations, validate(request)...)
	}
	if len(violations) > 0 {
		return zero, NewValidationErrors(violations)
	}

	handle, exists := d.handlers[t]
	if !exists {
		return zero, fmt.Errorf("%w: %s", ErrNoHandler, t)
	}

	result, err := handle(ctx, request)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(Res)
	if !ok {
		return zero, fmt.Errorf("handler for %s returned %T, caller expected %T", t, result, zero)
	}
	return typed, nil
}
