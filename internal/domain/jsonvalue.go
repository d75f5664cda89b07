package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"strconv"
)

// ImageList is the jsonb-backed ordered list of image URLs on a product.
// Anything stored that is not a JSON array of strings scans to an empty list;
// coercion is silent and total, malformed data never surfaces as an error.
type ImageList []string

func (l *ImageList) Scan(src any) error {
	*l = coerceImages(rawBytes(src))
	return nil
}

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l *ImageList) UnmarshalJSON(data []byte) error {
	*l = coerceImages(data)
	return nil
}

func coerceImages(data []byte) ImageList {
	if len(data) == 0 {
		return ImageList{}
	}
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ImageList{}
	}
	out := make(ImageList, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// SpecKind discriminates the closed set of scalar spec values.
type SpecKind int

const (
	SpecString SpecKind = iota
	SpecNumber
	SpecBool
)

// SpecValue is one technical attribute value: a string, a number or a bool.
type SpecValue struct {
	Kind SpecKind
	Str  string
	Num  float64
	Bool bool
}

func StringValue(s string) SpecValue  { return SpecValue{Kind: SpecString, Str: s} }
func NumberValue(n float64) SpecValue { return SpecValue{Kind: SpecNumber, Num: n} }
func BoolValue(b bool) SpecValue      { return SpecValue{Kind: SpecBool, Bool: b} }

// String renders the value for display and comparison cells.
func (v SpecValue) String() string {
	switch v.Kind {
	case SpecNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case SpecBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

func (v SpecValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case SpecNumber:
		return json.Marshal(v.Num)
	case SpecBool:
		return json.Marshal(v.Bool)
	default:
		return json.Marshal(v.Str)
	}
}

// SpecEntry is a single named attribute; SpecMap keeps document order so the
// comparison table is deterministic.
type SpecEntry struct {
	Key   string
	Value SpecValue
}

// SpecMap is the jsonb-backed free-form attribute mapping of a product.
// Anything stored that is not a JSON object scans to an empty map; values
// that are not scalars are dropped.
type SpecMap []SpecEntry

func (m *SpecMap) Scan(src any) error {
	*m = coerceSpecs(rawBytes(src))
	return nil
}

func (m SpecMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return m.MarshalJSON()
}

func (m *SpecMap) UnmarshalJSON(data []byte) error {
	*m = coerceSpecs(data)
	return nil
}

func (m SpecMap) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := e.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Get returns the value for key and whether it is present.
func (m SpecMap) Get(key string) (SpecValue, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return SpecValue{}, false
}

// Keys returns attribute names in document order.
func (m SpecMap) Keys() []string {
	out := make([]string, len(m))
	for i, e := range m {
		out[i] = e.Key
	}
	return out
}

// coerceSpecs walks the JSON object token by token to preserve key order.
func coerceSpecs(data []byte) SpecMap {
	if len(data) == 0 {
		return SpecMap{}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return SpecMap{}
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return SpecMap{}
	}
	out := SpecMap{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return SpecMap{}
		}
		key, ok := keyTok.(string)
		if !ok {
			return SpecMap{}
		}
		valTok, err := dec.Token()
		if err != nil {
			return SpecMap{}
		}
		switch v := valTok.(type) {
		case string:
			out = append(out, SpecEntry{Key: key, Value: StringValue(v)})
		case json.Number:
			f, err := v.Float64()
			if err == nil {
				out = append(out, SpecEntry{Key: key, Value: NumberValue(f)})
			}
		case bool:
			out = append(out, SpecEntry{Key: key, Value: BoolValue(v)})
		case json.Delim:
			// nested array/object: skip the subtree, drop the entry
			if err := skipValue(dec); err != nil {
				return SpecMap{}
			}
		default:
			// null: drop
		}
	}
	return out
}

func skipValue(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

func rawBytes(src any) []byte {
	switch v := src.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}
