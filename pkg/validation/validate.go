// Package validation checks that an envelope carries the fields the
// matched transition needs. A malformed envelope must never crash event
// handling: fields that gate classification simply fail to match, and the
// checks here cover the remainder, surfacing a reportable error instead of
// writing a partial record.
package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Require returns an error naming every empty field, or nil when all are
// present. kind names the transition for the error message.
func Require(kind string, fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%s event missing required fields: %s", kind, strings.Join(missing, ", "))
}

// RequireTime returns an error when a required event timestamp is absent.
func RequireTime(kind, name string, v int64) error {
	if v != 0 {
		return nil
	}
	return fmt.Errorf("%s event missing required field: %s", kind, name)
}
