package engine

import (
	"context"
	"fmt"

	"github.com/joeydtaylor/steeze-webapp/pkg/binding"
	lua "github.com/yuin/gopher-lua"
)

// Lua runs Lua 5.1 through gopher-lua. Bindings are tables of functions and
// accept both logger.info("x") and logger:info("x") call styles.
type Lua struct{}

func NewLua() *Lua { return &Lua{} }

func (*Lua) Name() string { return "gopher-lua" }

func (*Lua) Evaluate(ctx context.Context, source string, b binding.Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	L.SetGlobal(binding.NameLogger, luaLogger(L, b.Logger))
	L.SetGlobal(binding.NameRequest, luaRequest(L, b.Request))
	L.SetGlobal(binding.NameResponse, luaResponse(L, b.Response))

	fn, err := L.LoadString(source)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// funcs installs fns on a new table; each receives the index of its first real argument.
func funcs(L *lua.LState, fns map[string]func(L *lua.LState, base int) int) *lua.LTable {
	t := L.NewTable()
	for name, fn := range fns {
		L.SetField(t, name, L.NewFunction(func(L *lua.LState) int {
			base := 1
			if self, ok := L.Get(1).(*lua.LTable); ok && self == t {
				base = 2
			}
			return fn(L, base)
		}))
	}
	return t
}

func luaLogger(L *lua.LState, l *binding.Logger) *lua.LTable {
	level := func(log func(string, ...any)) func(*lua.LState, int) int {
		return func(L *lua.LState, base int) int {
			msg := L.CheckString(base)
			var args []any
			for i := base + 1; i <= L.GetTop(); i++ {
				args = append(args, L.Get(i).String())
			}
			log(msg, args...)
			return 0
		}
	}
	return funcs(L, map[string]func(*lua.LState, int) int{
		"debug": level(l.Debug),
		"info":  level(l.Info),
		"warn":  level(l.Warn),
		"error": level(l.Error),
	})
}

func luaRequest(L *lua.LState, q *binding.Request) *lua.LTable {
	str := func(get func() string) func(*lua.LState, int) int {
		return func(L *lua.LState, _ int) int {
			L.Push(lua.LString(get()))
			return 1
		}
	}
	return funcs(L, map[string]func(*lua.LState, int) int{
		"method":     str(q.Method),
		"path":       str(q.Path),
		"url":        str(q.URL),
		"host":       str(q.Host),
		"remoteAddr": str(q.RemoteAddr),
		"query": func(L *lua.LState, base int) int {
			L.Push(lua.LString(q.Query(L.CheckString(base))))
			return 1
		},
		"header": func(L *lua.LState, base int) int {
			L.Push(lua.LString(q.Header(L.CheckString(base))))
			return 1
		},
		"headers": func(L *lua.LState, _ int) int {
			t := L.NewTable()
			for k, v := range q.Headers() {
				t.RawSetString(k, lua.LString(v))
			}
			L.Push(t)
			return 1
		},
		"body": func(L *lua.LState, _ int) int {
			s, err := q.Body()
			if err != nil {
				L.RaiseError("%s", err.Error())
				return 0
			}
			L.Push(lua.LString(s))
			return 1
		},
		"parseJSON": func(L *lua.LState, _ int) int {
			v, err := q.ParseJSON()
			if err != nil {
				L.RaiseError("%s", err.Error())
				return 0
			}
			L.Push(toLua(L, v))
			return 1
		},
	})
}

func luaResponse(L *lua.LState, s *binding.Response) *lua.LTable {
	return funcs(L, map[string]func(*lua.LState, int) int{
		"setStatus": func(L *lua.LState, base int) int {
			L.Push(lua.LBool(s.SetStatus(L.CheckInt(base))))
			return 1
		},
		"status": func(L *lua.LState, _ int) int {
			L.Push(lua.LNumber(s.Status()))
			return 1
		},
		"committed": func(L *lua.LState, _ int) int {
			L.Push(lua.LBool(s.Committed()))
			return 1
		},
		"setHeader": func(L *lua.LState, base int) int {
			s.SetHeader(L.CheckString(base), L.CheckString(base+1))
			return 0
		},
		"addHeader": func(L *lua.LState, base int) int {
			s.AddHeader(L.CheckString(base), L.CheckString(base+1))
			return 0
		},
		"header": func(L *lua.LState, base int) int {
			L.Push(lua.LString(s.Header(L.CheckString(base))))
			return 1
		},
		"write": func(L *lua.LState, base int) int {
			n, err := s.Write(L.CheckString(base))
			if err != nil {
				L.RaiseError("%s", err.Error())
				return 0
			}
			L.Push(lua.LNumber(n))
			return 1
		},
		"writeJSON": func(L *lua.LState, base int) int {
			if err := s.WriteJSON(fromLua(L.Get(base))); err != nil {
				L.RaiseError("%s", err.Error())
			}
			return 0
		},
		"redirect": func(L *lua.LState, base int) int {
			L.Push(lua.LBool(s.Redirect(L.CheckString(base), L.OptInt(base+1, 0))))
			return 1
		},
	})
}

func toLua(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(x)
	case string:
		return lua.LString(x)
	case float64:
		return lua.LNumber(x)
	case int:
		return lua.LNumber(x)
	case []any:
		t := L.NewTable()
		for _, e := range x {
			t.Append(toLua(L, e))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, e := range x {
			t.RawSetString(k, toLua(L, e))
		}
		return t
	default:
		return lua.LString(fmt.Sprint(x))
	}
}

// fromLua maps tables with only 1..n integer keys to slices and any other table to a map.
func fromLua(v lua.LValue) any {
	switch x := v.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(x)
	case lua.LString:
		return string(x)
	case lua.LNumber:
		return float64(x)
	case *lua.LTable:
		if n := x.Len(); n > 0 {
			arr := make([]any, 0, n)
			isArray := true
			x.ForEach(func(k, _ lua.LValue) {
				if _, ok := k.(lua.LNumber); !ok {
					isArray = false
				}
			})
			if isArray {
				for i := 1; i <= n; i++ {
					arr = append(arr, fromLua(x.RawGetInt(i)))
				}
				return arr
			}
		}
		m := map[string]any{}
		x.ForEach(func(k, e lua.LValue) {
			m[k.String()] = fromLua(e)
		})
		return m
	default:
		return v.String()
	}
}
