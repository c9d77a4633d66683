package config

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v2"
)

// Value is one node of a parsed configuration tree. The variants are closed:
// String, Path, Bool, Number, List and Map.
type Value interface {
	value()
}

type (
	String string
	Path   string
	Bool   bool
	Number float64
	List   []Value
	Map    []MapItem
)

// MapItem is one key of an ordered Map.
type MapItem struct {
	Key   string
	Value Value
}

func (String) value() {}
func (Path) value()   {}
func (Bool) value()   {}
func (Number) value() {}
func (List) value()   {}
func (Map) value()    {}

// Get returns the value stored under key.
func (m Map) Get(key string) (Value, bool) {
	for _, item := range m {
		if item.Key == key {
			return item.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in source order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for _, item := range m {
		keys = append(keys, item.Key)
	}
	return keys
}

// Set replaces the value under key or appends it.
func (m Map) Set(key string, v Value) Map {
	for i, item := range m {
		if item.Key == key {
			m[i].Value = v
			return m
		}
	}
	return append(m, MapItem{Key: key, Value: v})
}

// Text returns the textual form of a String or Path.
func Text(v Value) (string, bool) {
	switch t := v.(type) {
	case String:
		return string(t), true
	case Path:
		return string(t), true
	}
	return "", false
}

// Transform returns a deep copy of v where every String and Path leaf has been
// passed through leaf. leaf must return the variant it was given.
func Transform(v Value, leaf func(Value) Value) Value {
	switch t := v.(type) {
	case nil:
		return nil
	case String, Path:
		return leaf(t)
	case Bool, Number:
		return t
	case List:
		out := make(List, len(t))
		for i, e := range t {
			out[i] = Transform(e, leaf)
		}
		return out
	case Map:
		out := make(Map, len(t))
		for i, item := range t {
			out[i] = MapItem{Key: item.Key, Value: Transform(item.Value, leaf)}
		}
		return out
	}
	panic(fmt.Sprintf("config: unknown value variant %T", v))
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	return Transform(v, func(leaf Value) Value { return leaf })
}

// Replace returns a deep copy of v in which every String or Path leaf equal to
// old is replaced by replacement, keeping the leaf variant. Leaves that are not
// URLs are normalized to their clean path form.
func Replace(v Value, old, replacement string) Value {
	target := cleanPath(old)
	return Transform(v, func(leaf Value) Value {
		text, _ := Text(leaf)
		if cleanPath(text) == target {
			text = replacement
		}
		if !IsURL(text) {
			text = cleanPath(text)
		}
		if _, ok := leaf.(Path); ok {
			return Path(text)
		}
		return String(text)
	})
}

// IsURL reports whether s is an absolute http(s) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func cleanPath(s string) string {
	if s == "" {
		return s
	}
	return path.Clean(strings.ReplaceAll(s, "\\", "/"))
}

// FromYAML converts a value decoded by yaml.v2 into a MapSlice-preserving tree.
func FromYAML(raw interface{}) Value {
	switch t := raw.(type) {
	case nil:
		return nil
	case yaml.MapSlice:
		out := make(Map, 0, len(t))
		for _, item := range t {
			out = append(out, MapItem{Key: fmt.Sprint(item.Key), Value: FromYAML(item.Value)})
		}
		return out
	case map[interface{}]interface{}:
		keys := make([]string, 0, len(t))
		byKey := make(map[string]interface{}, len(t))
		for k, v := range t {
			keys = append(keys, fmt.Sprint(k))
			byKey[fmt.Sprint(k)] = v
		}
		sort.Strings(keys)
		out := make(Map, 0, len(keys))
		for _, k := range keys {
			out = append(out, MapItem{Key: k, Value: FromYAML(byKey[k])})
		}
		return out
	case []interface{}:
		out := make(List, 0, len(t))
		for _, e := range t {
			out = append(out, FromYAML(e))
		}
		return out
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Number(t)
	case int64:
		return Number(t)
	case uint64:
		return Number(t)
	case float64:
		return Number(t)
	}
	return String(fmt.Sprint(raw))
}

// FromTOML converts a go-toml tree. Keys are ordered by their position in the
// source document so that table order carries the same meaning as in YAML.
func FromTOML(raw interface{}) Value {
	switch t := raw.(type) {
	case nil:
		return nil
	case *toml.Tree:
		keys := t.Keys()
		sort.SliceStable(keys, func(i, j int) bool {
			pi := t.GetPositionPath([]string{keys[i]})
			pj := t.GetPositionPath([]string{keys[j]})
			if pi.Line != pj.Line {
				return pi.Line < pj.Line
			}
			return pi.Col < pj.Col
		})
		out := make(Map, 0, len(keys))
		for _, k := range keys {
			out = append(out, MapItem{Key: k, Value: FromTOML(t.GetPath([]string{k}))})
		}
		return out
	case []*toml.Tree:
		out := make(List, 0, len(t))
		for _, e := range t {
			out = append(out, FromTOML(e))
		}
		return out
	case []interface{}:
		out := make(List, 0, len(t))
		for _, e := range t {
			out = append(out, FromTOML(e))
		}
		return out
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int64:
		return Number(t)
	case float64:
		return Number(t)
	}
	return String(fmt.Sprint(raw))
}
