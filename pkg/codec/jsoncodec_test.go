package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalKeepsHTMLAndDropsNewline(t *testing.T) {
	b, err := JSONStrict.Marshal(map[string]string{"q": "<a&b>"})
	require.NoError(t, err)
	assert.Equal(t, `{"q":"<a&b>"}`, string(b))
}

func TestUnmarshalRejectsTrailingContent(t *testing.T) {
	var v any
	require.NoError(t, JSONStrict.Unmarshal([]byte(`{"a":1}`+"\n"), &v))
	assert.Equal(t, map[string]any{"a": float64(1)}, v)

	err := JSONStrict.Unmarshal([]byte(`{"a":1} []`), &v)
	assert.ErrorContains(t, err, "trailing")
}

func TestUnmarshalRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	require.NoError(t, JSONStrict.Unmarshal([]byte(`{"name":"x"}`), &dst))
	assert.Equal(t, "x", dst.Name)

	err := JSONStrict.Unmarshal([]byte(`{"name":"x","extra":1}`), &dst)
	assert.ErrorContains(t, err, "json decode")
}

func TestUnmarshalMalformed(t *testing.T) {
	var v any
	assert.ErrorContains(t, JSONStrict.Unmarshal([]byte(`{`), &v), "json decode")
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json; charset=utf-8", JSONStrict.ContentType())
}
