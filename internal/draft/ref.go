package draft

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ParseRef accepts either a numeric draft id or a public UUID and returns
// it in canonical form.
func ParseRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n <= 0 {
			return "", ErrInvalidRef
		}
		return strconv.Itoa(n), nil
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return "", ErrInvalidRef
	}
	return id.String(), nil
}
