package engine

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/dop251/goja"
	"github.com/joeydtaylor/steeze-webapp/pkg/binding"
)

// JS runs ECMAScript 5.1+ through goja. Go methods on the bindings are
// exposed in lower camel case (response.setStatus, request.url, logger.info).
type JS struct{}

func NewJS() *JS { return &JS{} }

func (*JS) Name() string { return "goja" }

func (*JS) Evaluate(ctx context.Context, source string, b binding.Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	vm := goja.New()
	vm.SetFieldNameMapper(camelMapper{})

	for name, v := range map[string]any{
		binding.NameLogger:   b.Logger,
		binding.NameRequest:  b.Request,
		binding.NameResponse: b.Response,
	} {
		if err := vm.Set(name, v); err != nil {
			return fmt.Errorf("bind %s: %w", name, err)
		}
	}

	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	prg, err := goja.Compile("webapp.js", source, false)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	if _, err := vm.RunProgram(prg); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

type camelMapper struct{}

func (camelMapper) FieldName(_ reflect.Type, f reflect.StructField) string { return camel(f.Name) }
func (camelMapper) MethodName(_ reflect.Type, m reflect.Method) string    { return camel(m.Name) }

// camel lower-cases the first letter, or the whole name when it is an initialism.
func camel(name string) string {
	if strings.ToUpper(name) == name {
		return strings.ToLower(name)
	}
	r := []rune(name)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
