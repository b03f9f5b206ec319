package engine

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/joeydtaylor/steeze-webapp/pkg/binding"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// HandleFunc is the entry point a Go script must define as main.Handle.
type HandleFunc = func(*binding.Logger, *binding.Request, *binding.Response)

// Go interprets Go source through yaegi. The script is a main package that
// imports "webapp" and defines
//
//	func Handle(logger *webapp.Logger, request *webapp.Request, response *webapp.Response)
//
// Context cancellation stops compilation but not a running Handle; scripts
// that loop should watch request.Context().
type Go struct{}

func NewGo() *Go { return &Go{} }

func (*Go) Name() string { return "yaegi" }

var webappExports = interp.Exports{
	"webapp/webapp": map[string]reflect.Value{
		"Logger":   reflect.ValueOf((*binding.Logger)(nil)),
		"Request":  reflect.ValueOf((*binding.Request)(nil)),
		"Response": reflect.ValueOf((*binding.Response)(nil)),
	},
}

func (*Go) Evaluate(ctx context.Context, source string, b binding.Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("load stdlib: %w", err)
	}
	if err := i.Use(webappExports); err != nil {
		return fmt.Errorf("export bindings: %w", err)
	}
	if _, err := i.EvalWithContext(ctx, source); err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	v, err := i.EvalWithContext(ctx, "main.Handle")
	if err != nil {
		return fmt.Errorf("lookup Handle: %w", err)
	}
	if !v.IsValid() {
		return errors.New("main.Handle is not defined")
	}
	fn, ok := v.Interface().(HandleFunc)
	if !ok {
		return errors.New("main.Handle has unexpected signature")
	}
	fn(b.Logger, b.Request, b.Response)
	return nil
}
