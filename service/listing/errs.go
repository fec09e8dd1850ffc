package listingsvc

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound means the listing id does not exist at all (any status).
var ErrNotFound = errors.New("listing not found")

// ValidationError reports every field that failed the creation rules,
// keyed by its form field name. It is produced before any write happens.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "invalid listing: " + strings.Join(names, ", ")
}

// AsValidation unwraps a *ValidationError if err carries one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
