package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tree is a nested configuration mapping. Values are scalars, lists or
// nested trees.
type Tree map[string]interface{}

// AsTree reports whether v is a configuration tree and returns it. Plain
// string-keyed maps as produced by viper and yaml.v3 count as trees.
func AsTree(v interface{}) (Tree, bool) {
	switch m := v.(type) {
	case Tree:
		return m, true
	case map[string]interface{}:
		return Tree(m), true
	case map[interface{}]interface{}:
		t := make(Tree, len(m))
		for k, val := range m {
			t[fmt.Sprint(k)] = val
		}
		return t, true
	default:
		return nil, false
	}
}

// Clone returns a deep copy of the tree. Nested maps are normalised to Tree.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	if sub, ok := AsTree(v); ok {
		return sub.Clone()
	}
	if list, ok := v.([]interface{}); ok {
		out := make([]interface{}, len(list))
		for i, item := range list {
			out[i] = cloneValue(item)
		}
		return out
	}
	return v
}

// Sub returns the nested tree stored at key, or nil.
func (t Tree) Sub(key string) Tree {
	sub, _ := AsTree(t[key])
	return sub
}

// Lookup resolves a dot separated path such as "providers.local.root".
func (t Tree) Lookup(path string) (interface{}, bool) {
	current := t
	parts := strings.Split(path, ".")
	for i, part := range parts {
		v, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		if current, ok = AsTree(v); !ok {
			return nil, false
		}
	}
	return nil, false
}

// Keys returns the top-level keys in sorted order.
func (t Tree) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns the value at key rendered as text. Missing keys and nil
// values yield "".
func (t Tree) String(key string) string {
	return Scalar(t[key])
}

// Int returns the value at key as an int, or def when it is missing or not
// numeric.
func (t Tree) Int(key string, def int) int {
	switch v := t[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// Bool returns the value at key as a bool, or def.
func (t Tree) Bool(key string, def bool) bool {
	switch v := t[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

// Strings returns the value at key as a list of strings. A single scalar is
// split on commas.
func (t Tree) Strings(key string) []string {
	switch v := t[key].(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := Scalar(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return append([]string(nil), v...)
	case string:
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Scalar renders a configuration value as text.
func Scalar(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}
