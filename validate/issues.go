package validate

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeUnknownKey    = "unknown_key"
	CodeInvalidEnum   = "invalid_enum"
	CodeEmptyArray    = "empty_array"
	CodeInvalidFormat = "invalid_format"
	// CodeSchema reports a defect in the schema itself rather than in the input.
	CodeSchema = "schema_error"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /Cases/2/CaseType).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"value":"Boat"}) for i18n
	// and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	b.WriteString("validation failed: ")
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. required at /OrderInfo/City: missing required parameter "City"
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// First returns the first issue with the given code.
func (iss Issues) First(code string) (Issue, bool) {
	for _, it := range iss {
		if it.Code == code {
			return it, true
		}
	}
	return Issue{}, false
}

// Has reports whether an issue with the given code and path exists. An empty
// path matches any path.
func (iss Issues) Has(code, path string) bool {
	for _, it := range iss {
		if it.Code == code && (path == "" || it.Path == path) {
			return true
		}
	}
	return false
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

// rebase moves child issues under base. Errors that are not Issues become a
// single invalid_type issue at base.
func rebase(base string, err error) Issues {
	child, ok := AsIssues(err)
	if !ok {
		return Issues{Issue{Path: base, Code: CodeInvalidType, Message: err.Error(), Cause: err}}
	}
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

func singleIssue(code, msg string, params map[string]any) Issues {
	return Issues{Issue{Path: "/", Code: code, Message: msg, Params: params}}
}
