package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// TypeError reports an unexpected JSON value kind
type TypeError struct {
	Expected string
	Actual   interface{}
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("expected %v, but had %v", e.Expected, Kind(e.Actual))
}

// Kind returns the JSON kind name of a tree value
func Kind(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		return "number"
	case []interface{}:
		return "array"
	case *Object:
		return "object"
	}
	return fmt.Sprintf("%T", value)
}

// Decode parses JSON into tree values; numbers are kept as json.Number so that
// their literal form survives a decode/encode cycle.
func Decode(data []byte) (interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	value, err := decodeValue(decoder)
	if err != nil {
		return nil, err
	}
	if _, err = decoder.Token(); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("unexpected content at offset %v", decoder.InputOffset())
		}
		return nil, err
	}
	return value, nil
}

// Encode serialises a tree value, indent is used per nesting level unless empty.
func Encode(value interface{}, indent string) ([]byte, error) {
	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	if indent != "" {
		encoder.SetIndent("", indent)
	}
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy of a tree value
func Clone(value interface{}) interface{} {
	switch actual := value.(type) {
	case *Object:
		if actual == nil {
			return actual
		}
		ret := &Object{keys: append([]string{}, actual.keys...), values: make(map[string]interface{}, len(actual.values))}
		for k, v := range actual.values {
			ret.values[k] = Clone(v)
		}
		return ret
	case []interface{}:
		ret := make([]interface{}, len(actual))
		for i, item := range actual {
			ret[i] = Clone(item)
		}
		return ret
	}
	return value
}

func decodeValue(decoder *json.Decoder) (interface{}, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := token.(json.Delim)
	if !ok {
		return token, nil
	}
	switch delim {
	case '{':
		return decodeObject(decoder)
	case '[':
		return decodeArray(decoder)
	}
	return nil, fmt.Errorf("unexpected delimiter %v at offset %v", delim, decoder.InputOffset())
}

func decodeObject(decoder *json.Decoder) (*Object, error) {
	ret := NewObject()
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key at offset %v", decoder.InputOffset())
		}
		value, err := decodeValue(decoder)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %v: %w", key, err)
		}
		ret.Set(key, value)
	}
	if _, err := decoder.Token(); err != nil { // '}'
		return nil, err
	}
	return ret, nil
}

func decodeArray(decoder *json.Decoder) ([]interface{}, error) {
	ret := make([]interface{}, 0)
	for decoder.More() {
		value, err := decodeValue(decoder)
		if err != nil {
			return nil, err
		}
		ret = append(ret, value)
	}
	if _, err := decoder.Token(); err != nil { // ']'
		return nil, err
	}
	return ret, nil
}
