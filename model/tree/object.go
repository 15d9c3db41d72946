package tree

import (
	"bytes"
	"encoding/json"
)

// Object represents a JSON object that keeps its members in document order.
//
// Values held by an Object (and by the slices nested in it) are limited to
// the shapes produced by Decode: nil, bool, string, json.Number,
// []interface{} and *Object.
type Object struct {
	keys   []string
	values map[string]interface{}
}

// NewObject creates an empty object
func NewObject() *Object {
	return &Object{values: map[string]interface{}{}}
}

// Len returns number of members
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns member names in document order
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string{}, o.keys...)
}

// Has returns true if the object defines key
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Get returns member value
func (o *Object) Get(key string) (interface{}, bool) {
	if o == nil {
		return nil, false
	}
	value, ok := o.values[key]
	return value, ok
}

// Object returns member value if it is an object
func (o *Object) Object(key string) (*Object, bool) {
	value, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	ret, ok := value.(*Object)
	return ret, ok && ret != nil
}

// String returns member value if it is a string
func (o *Object) String(key string) (string, bool) {
	value, ok := o.Get(key)
	if !ok {
		return "", false
	}
	ret, ok := value.(string)
	return ret, ok
}

// Set assigns a member value, an existing member keeps its position
func (o *Object) Set(key string, value interface{}) {
	if o.values == nil {
		o.values = map[string]interface{}{}
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes a member
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, candidate := range o.keys {
		if candidate == key {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a shallow copy, member values are shared with the receiver
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	ret := &Object{keys: append([]string{}, o.keys...), values: make(map[string]interface{}, len(o.values))}
	for k, v := range o.values {
		ret.values[k] = v
	}
	return ret
}

// MarshalJSON encodes members in document order
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		encodedValue, err := marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(encodedValue)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keeping member order
func (o *Object) UnmarshalJSON(data []byte) error {
	value, err := Decode(data)
	if err != nil {
		return err
	}
	decoded, ok := value.(*Object)
	if !ok {
		return &TypeError{Expected: "object", Actual: value}
	}
	*o = *decoded
	return nil
}

func marshal(value interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
