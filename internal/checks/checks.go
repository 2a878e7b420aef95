// Package checks provides stateless data-format validators.
//
// They back the "format:<name>" expected-value syntax in scenario field
// assertions and are usable directly by other packages.
package checks

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// UUID reports whether s parses as an RFC 4122 UUID.
func UUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// ISODate reports whether s is an ISO 8601 date or timestamp.
func ISODate(s string) bool {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// URL reports whether s is an absolute URL with a host.
func URL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Numeric reports whether s parses as a decimal number.
func Numeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// Format applies the named format check to s.
// Unknown format names are errors so scenario typos surface loudly.
func Format(name, s string) (bool, error) {
	switch name {
	case "email":
		return Email(s), nil
	case "uuid":
		return UUID(s), nil
	case "iso_date":
		return ISODate(s), nil
	case "url":
		return URL(s), nil
	case "numeric":
		return Numeric(s), nil
	default:
		return false, fmt.Errorf("unknown format %q", name)
	}
}
