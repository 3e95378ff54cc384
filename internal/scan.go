package internal

import (
	"errors"
	"fmt"
	"strings"
)

// Guard limit errors. The root package maps these onto its public sentinels.
var (
	ErrPathTooLong = errors.New("path length limit exceeded")
	ErrPathTooDeep = errors.New("path depth limit exceeded")
)

// SplitBracket splits a path that begins with '[' into the index token and
// the remainder after the closing bracket. The token is the raw text between
// the brackets; it may contain any character except ']'.
func SplitBracket(path string) (token, rest string, err error) {
	end := strings.IndexByte(path, ']')
	if end < 0 {
		return "", "", fmt.Errorf("missing closing bracket in '%s'", path)
	}
	token = path[1:end]
	if token == "" {
		return "", "", fmt.Errorf("empty index in '%s'", path)
	}
	return token, path[end+1:], nil
}

// ValidatePath enforces the configured length and depth guards before any
// resolution work happens. Limits of zero or less disable the check.
func ValidatePath(path string, maxLength, maxDepth int) error {
	if maxLength > 0 && len(path) > maxLength {
		return fmt.Errorf("%w: length %d exceeds maximum %d", ErrPathTooLong, len(path), maxLength)
	}
	if maxDepth > 0 {
		if depth := SegmentCount(path); depth > maxDepth {
			return fmt.Errorf("%w: depth %d exceeds maximum %d", ErrPathTooDeep, depth, maxDepth)
		}
	}
	return nil
}

// SegmentCount counts resolution steps in a single pass: one per member
// segment plus one per bracket segment. Dots inside brackets belong to the
// index token and do not count. The count is a guard metric only; syntax
// errors are reported by the resolver itself.
func SegmentCount(path string) int {
	if path == "" {
		return 0
	}
	depth := 0
	if path[0] != '[' && path[0] != '.' {
		depth = 1
	}
	inBracket := false
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '[':
			if !inBracket {
				inBracket = true
				depth++
			}
		case ']':
			inBracket = false
		case '.':
			if !inBracket {
				depth++
			}
		}
	}
	return depth
}
