package docodec

import (
	"errors"
	"fmt"
	"strings"
)

// Diagnostic codes (exported consts for IDE completion and stable matching).
const (
	CodeWrongShape      = "wrong_shape"
	CodeCapacity        = "capacity"
	CodeMissingKey      = "missing_key"
	CodeDuplicateKey    = "duplicate_key"
	CodeUnknownKey      = "unknown_key"
	CodeInvalidValue    = "invalid_value"
	CodePattern         = "pattern"
	CodeUnknownTypeName = "unknown_type_name"
	CodeIncompleteFrame = "incomplete_frame"
	CodeParseError      = "parse_error"
)

// Issue represents a single diagnostic entry.
type Issue struct {
	Path    string // Slash-joined frame path (for example Person/tags[2]).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional remediation hint.
	Cause   error  // Optional underlying error.
}

// Issues is an ordered collection of diagnostics that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
