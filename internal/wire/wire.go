// Package wire implements the typed wire codec the RPC dispatcher and
// server-action shims rely on (spec.md §3 "Server shim", §6 "File format
// contracts"): it preserves Date, RegExp, Map, Set, big integers, and
// typed byte arrays across a JSON transport, and round-trips `undefined`
// and NaN distinctly from `null`. JSON's native type set cannot express
// any of these, so every special value is encoded as a tagged envelope
// object and walked back on decode — the same tree-walk-over-interface{}
// shape the corpus uses for flexible JSON handling rather than bespoke
// Marshaler/Unmarshaler methods per type.
package wire

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"math/big"
	"regexp"
	"time"
)

// wireTag names the envelope's discriminator field.
const wireTag = "$wire"

// Undefined is the sentinel value representing JS `undefined`, distinct
// from Go's nil (which represents `null`).
type Undefined struct{}

// Set preserves JS `Set` semantics: an ordered, uniqueness-is-the-caller's-
// job collection.
type Set struct {
	Items []interface{}
}

// NewSet constructs a Set from items, in order.
func NewSet(items ...interface{}) *Set {
	return &Set{Items: items}
}

// MapEntry is one key/value pair of an OrderedMap, preserving JS `Map`'s
// arbitrary (not just string) key support and insertion order.
type MapEntry struct {
	Key   interface{}
	Value interface{}
}

// OrderedMap preserves JS `Map` semantics across the wire: insertion order
// and non-string keys, neither of which a plain Go map or JSON object can
// carry.
type OrderedMap struct {
	Entries []MapEntry
}

// NewOrderedMap constructs an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{}
}

// Set appends or updates the entry for key, preserving its original
// position on update.
func (m *OrderedMap) Set(key, value interface{}) {
	for i, e := range m.Entries {
		if e.Key == key {
			m.Entries[i].Value = value
			return
		}
	}
	m.Entries = append(m.Entries, MapEntry{Key: key, Value: value})
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap) Get(key interface{}) (interface{}, bool) {
	for _, e := range m.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Encode serializes v into the wire format, tagging every value JSON
// cannot natively represent.
func Encode(v interface{}) ([]byte, error) {
	return json.Marshal(encodeValue(v))
}

func encodeValue(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case Undefined:
		return envelope("undefined", nil)
	case float32:
		return encodeValue(float64(x))
	case float64:
		if math.IsNaN(x) {
			return envelope("nan", nil)
		}
		return x
	case time.Time:
		return envelope("date", x.UTC().Format(time.RFC3339Nano))
	case *regexp.Regexp:
		return envelope("regexp", x.String())
	case *big.Int:
		return envelope("bigint", x.String())
	case []byte:
		return envelope("bytes", base64.StdEncoding.EncodeToString(x))
	case *OrderedMap:
		pairs := make([][2]interface{}, len(x.Entries))
		for i, e := range x.Entries {
			pairs[i] = [2]interface{}{encodeValue(e.Key), encodeValue(e.Value)}
		}
		return envelope("map", pairs)
	case *Set:
		items := make([]interface{}, len(x.Items))
		for i, it := range x.Items {
			items[i] = encodeValue(it)
		}
		return envelope("set", items)
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, it := range x {
			out[i] = encodeValue(it)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, val := range x {
			out[k] = encodeValue(val)
		}
		return out
	default:
		return x
	}
}

func envelope(kind string, value interface{}) map[string]interface{} {
	return map[string]interface{}{wireTag: kind, "value": value}
}

// Decode parses wire-encoded JSON back into Go values, restoring the
// special types Encode tagged.
func Decode(data []byte) (interface{}, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return decodeValue(raw), nil
}

func decodeValue(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		if kind, ok := x[wireTag].(string); ok && len(x) == 2 {
			if decoded, ok := decodeEnvelope(kind, x["value"]); ok {
				return decoded
			}
		}
		out := make(map[string]interface{}, len(x))
		for k, val := range x {
			out[k] = decodeValue(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, it := range x {
			out[i] = decodeValue(it)
		}
		return out
	default:
		return x
	}
}

func decodeEnvelope(kind string, value interface{}) (interface{}, bool) {
	switch kind {
	case "undefined":
		return Undefined{}, true
	case "nan":
		return math.NaN(), true
	case "date":
		s, _ := value.(string)
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, false
		}
		return t, true
	case "regexp":
		s, _ := value.(string)
		re, err := regexp.Compile(s)
		if err != nil {
			return nil, false
		}
		return re, true
	case "bigint":
		s, _ := value.(string)
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, false
		}
		return n, true
	case "bytes":
		s, _ := value.(string)
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, false
		}
		return b, true
	case "map":
		arr, ok := value.([]interface{})
		if !ok {
			return nil, false
		}
		om := NewOrderedMap()
		for _, pairAny := range arr {
			pair, ok := pairAny.([]interface{})
			if !ok || len(pair) != 2 {
				return nil, false
			}
			om.Set(decodeValue(pair[0]), decodeValue(pair[1]))
		}
		return om, true
	case "set":
		arr, ok := value.([]interface{})
		if !ok {
			return nil, false
		}
		items := make([]interface{}, len(arr))
		for i, it := range arr {
			items[i] = decodeValue(it)
		}
		return &Set{Items: items}, true
	default:
		return nil, false
	}
}
