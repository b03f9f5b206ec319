package engine

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoScriptHandle(t *testing.T) {
	b, rec := newSet(t, http.MethodGet, "/webapp?name=eve", "")

	src := `package main

import (
	"strings"

	"webapp"
)

func Handle(logger *webapp.Logger, request *webapp.Request, response *webapp.Response) {
	logger.Info("handling")
	response.SetStatus(203)
	response.SetHeader("X-Lang", "go")
	response.Write(strings.ToUpper(request.Query("name")))
}
`
	require.NoError(t, NewGo().Evaluate(context.Background(), src, b))

	require.Equal(t, http.StatusNonAuthoritativeInfo, rec.Code)
	require.Equal(t, "go", rec.Header().Get("X-Lang"))
	require.Equal(t, "EVE", rec.Body.String())
}

func TestGoScriptCompileError(t *testing.T) {
	b, _ := newSet(t, http.MethodGet, "/webapp", "")

	err := NewGo().Evaluate(context.Background(), "package main\n\nfunc Handle( {\n", b)
	require.ErrorContains(t, err, "compile")
}

func TestGoScriptWithoutHandle(t *testing.T) {
	b, _ := newSet(t, http.MethodGet, "/webapp", "")

	err := NewGo().Evaluate(context.Background(), "package main\n\nfunc helper() {}\n", b)
	require.Error(t, err)
}
