package reading

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPage is returned for page input that is not a usable number
var ErrInvalidPage = errors.New("invalid page number")

// ParsePageInput parses a current-page value; zero is allowed
func ParsePageInput(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPage, s)
	}
	return n, nil
}

// ParsePagesInput parses a number of pages read, which must be at least 1
func ParsePagesInput(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPage, s)
	}
	return n, nil
}
