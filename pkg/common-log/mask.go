package commonlog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sing3demons/go-bakery-service/pkg/common-log/masking"
)

// cloneAndMask returns a JSON-shaped deep copy of data with every field selected by
// options masked. data itself is never modified. When data is an array, paths that do not
// start with "*" or an index are applied to each element.
func cloneAndMask(data any, options []masking.MaskingOptionDto, masker masking.MaskingService) any {
	if len(options) == 0 || data == nil {
		return data
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return data
	}

	var clone any
	if err := json.Unmarshal(raw, &clone); err != nil {
		return data
	}

	for _, opt := range options {
		keys := strings.Split(opt.MaskingField, ".")

		if arr, ok := clone.([]any); ok && !isIndex(keys[0]) {
			for i := range arr {
				arr[i] = maskPath(arr[i], keys, opt.MaskingType, masker)
			}
			continue
		}

		clone = maskPath(clone, keys, opt.MaskingType, masker)
	}

	return clone
}

func maskPath(node any, keys []string, maskType masking.MaskingType, masker masking.MaskingService) any {
	if len(keys) == 0 {
		if s, ok := node.(string); ok {
			return masker.Masking(s, maskType)
		}
		return node
	}

	switch cur := node.(type) {
	case map[string]any:
		if next, ok := cur[keys[0]]; ok {
			cur[keys[0]] = maskPath(next, keys[1:], maskType, masker)
		}
	case []any:
		if keys[0] == "*" {
			for i := range cur {
				cur[i] = maskPath(cur[i], keys[1:], maskType, masker)
			}
			return cur
		}
		if idx, err := strconv.Atoi(keys[0]); err == nil && idx >= 0 && idx < len(cur) {
			cur[idx] = maskPath(cur[idx], keys[1:], maskType, masker)
		}
	}

	return node
}

func isIndex(key string) bool {
	if key == "*" {
		return true
	}
	_, err := strconv.Atoi(key)
	return err == nil
}

func toJSON(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case error:
		return val.Error()
	case int, int64, float64, bool:
		return fmt.Sprintf("%v", val)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%+v", v)
		}
		return string(b)
	}
}
