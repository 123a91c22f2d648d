package models

import (
	"fmt"

	"github.com/spf13/cast"
)

// coerceString turns an arbitrary structured-data value into its display string.
// nil becomes "" so every field ends up a concrete string.
func coerceString(value interface{}) string {
	if value == nil {
		return ""
	}
	if s, err := cast.ToStringE(value); err == nil {
		return s
	}
	return fmt.Sprint(value)
}
