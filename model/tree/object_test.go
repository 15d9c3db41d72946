package tree

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestDecodeEncode(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		indent      string
		expect      string
		expectErr   bool
	}{
		{
			description: "member order preserved",
			input:       `{"z":1,"a":{"y":true,"b":null},"m":["x",2.50]}`,
			expect:      `{"z":1,"a":{"y":true,"b":null},"m":["x",2.50]}` + "\n",
		},
		{
			description: "html characters kept verbatim",
			input:       `{"Expression":"[a] < 3 && [b] > 1"}`,
			expect:      `{"Expression":"[a] < 3 && [b] > 1"}` + "\n",
		},
		{
			description: "indented output",
			input:       `{"a":{"@value":"True"}}`,
			indent:      "  ",
			expect:      "{\n  \"a\": {\n    \"@value\": \"True\"\n  }\n}\n",
		},
		{
			description: "trailing content",
			input:       `{"a":1} {"b":2}`,
			expectErr:   true,
		},
		{
			description: "truncated",
			input:       `{"a":[1,2`,
			expectErr:   true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			value, err := Decode([]byte(testCase.input))
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			actual, err := Encode(value, testCase.indent)
			require.NoError(t, err)
			assert.Equal(t, testCase.expect, string(actual))
		})
	}
}

func TestObject_Set(t *testing.T) {
	object := NewObject()
	object.Set("b", "1")
	object.Set("a", "2")
	object.Set("b", "3")
	assert.Equal(t, []string{"b", "a"}, object.Keys())
	value, ok := object.String("b")
	assert.True(t, ok)
	assert.Equal(t, "3", value)

	object.Delete("b")
	assert.Equal(t, []string{"a"}, object.Keys())
	assert.False(t, object.Has("b"))
	object.Delete("missing")
	assert.Equal(t, 1, object.Len())
}

func TestClone(t *testing.T) {
	value, err := Decode([]byte(`{"a":{"b":[{"c":"d"}]},"e":1}`))
	require.NoError(t, err)
	original := value.(*Object)

	shallow := original.Clone()
	shallow.Set("e", json.Number("2"))
	nested, _ := shallow.Object("a")
	assert.Same(t, nested, func() *Object { o, _ := original.Object("a"); return o }())

	deep := Clone(original).(*Object)
	deepNested, _ := deep.Object("a")
	deepNested.Set("b", "changed")

	encoded, err := Encode(original, "")
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"b":[{"c":"d"}]},"e":1}`+"\n", string(encoded))
}

func TestObject_UnmarshalJSON(t *testing.T) {
	var holder struct {
		Config *Object `json:"config"`
	}
	err := json.Unmarshal([]byte(`{"config":{"k2":"v","k1":false}}`), &holder)
	require.NoError(t, err)
	assert.Equal(t, []string{"k2", "k1"}, holder.Config.Keys())

	object := NewObject()
	assert.Error(t, object.UnmarshalJSON([]byte(`[1]`)))
}
