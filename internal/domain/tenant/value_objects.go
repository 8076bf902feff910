package tenant

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidTenantID = errors.New("invalid tenant ID format")

var uuidV4Regex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-4[0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

// ParseID accepts only the canonical hyphenated UUIDv4 form.
func ParseID(s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if !uuidV4Regex.MatchString(s) {
		return uuid.Nil, ErrInvalidTenantID
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrInvalidTenantID
	}
	return id, nil
}
