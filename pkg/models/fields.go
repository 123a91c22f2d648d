package models

// fieldKey binds a structured-data key to the string field it fills.
type fieldKey[T any] struct {
	key   string
	field func(*T) *string
}

func readFields[T any](keys []fieldKey[T], data map[string]interface{}, dst *T) {
	for _, k := range keys {
		*k.field(dst) = coerceString(data[k.key])
	}
}

func writeFields[T any](keys []fieldKey[T], src *T, dst map[string]interface{}) {
	for _, k := range keys {
		dst[k.key] = *k.field(src)
	}
}
