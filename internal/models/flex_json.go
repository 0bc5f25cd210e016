package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// flexFieldMaps caches JSON tag -> struct field index mappings per type
var flexFieldMaps sync.Map

func fieldMapFor(t reflect.Type) map[string]int {
	if cached, ok := flexFieldMaps.Load(t); ok {
		return cached.(map[string]int)
	}
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		m[strings.Split(tag, ",")[0]] = i
	}
	flexFieldMaps.Store(t, m)
	return m
}

// UnmarshalJSON accepts both string-encoded and native values. Fields whose
// payload cannot be coerced (e.g. tags sent as an empty array) are left zero.
func (a *SteamSpyApp) UnmarshalJSON(data []byte) error {
	type alias SteamSpyApp
	return flexUnmarshal(data, (*alias)(a))
}

// UnmarshalJSON accepts percent as either a number or a numeric string.
func (g *GlobalAchievement) UnmarshalJSON(data []byte) error {
	type alias GlobalAchievement
	return flexUnmarshal(data, (*alias)(g))
}

func flexUnmarshal(data []byte, target any) error {
	// Fast path: standard unmarshal works when all types match natively
	if err := json.Unmarshal(data, target); err == nil {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	v := reflect.ValueOf(target).Elem()
	fieldMap := fieldMapFor(v.Type())

	for key, rawVal := range raw {
		idx, ok := fieldMap[key]
		if !ok {
			continue
		}

		fv := v.Field(idx)
		if !fv.CanSet() {
			continue
		}

		ptr := reflect.New(fv.Type())
		if err := json.Unmarshal(rawVal, ptr.Interface()); err == nil {
			fv.Set(ptr.Elem())
			continue
		}

		if len(rawVal) > 1 && rawVal[0] == '"' {
			var s string
			if err := json.Unmarshal(rawVal, &s); err != nil || s == "" {
				continue
			}
			coerceStringToField(fv, s)
			continue
		}

		// Numeric payload for a string field
		if fv.Kind() == reflect.String {
			var n json.Number
			if err := json.Unmarshal(rawVal, &n); err == nil {
				fv.SetString(n.String())
			}
		}
	}

	return nil
}

// coerceStringToField converts a string value to the field's native type.
func coerceStringToField(fv reflect.Value, s string) {
	switch fv.Kind() {
	case reflect.Float32, reflect.Float64:
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetFloat(n)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetInt(int64(n))
		}
	case reflect.Bool:
		if b, err := strconv.ParseBool(s); err == nil {
			fv.SetBool(b)
		}
	case reflect.String:
		fv.SetString(s)
	}
}
