package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrTaskIDRequired indicates no task ID was provided.
	ErrTaskIDRequired = errors.New("task id required")

	// ErrArticleIDRequired indicates no article ID was provided.
	ErrArticleIDRequired = errors.New("article id required")
)

// ParseTaskID parses a task ID from the positional arguments.
//
// Accepted forms are "5" and "#5". IDs must be positive and only one
// argument may be given.
func ParseTaskID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, ErrTaskIDRequired
	}
	return parseID(args, "task")
}

// ParseArticleID parses an article ID the same way as ParseTaskID.
func ParseArticleID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, ErrArticleIDRequired
	}
	return parseID(args, "article")
}

func parseID(args []string, kind string) (int64, error) {
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}

	ref := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("invalid %s id: %s", kind, args[0])
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s id: %s", kind, args[0])
	}
	return id, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
