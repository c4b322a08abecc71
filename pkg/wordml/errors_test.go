package wordml

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{"range", NewRangeError("insert text", 12, 5), IsRangeError},
		{"invalid document", NewInvalidDocumentError(PartDocument, "missing body", nil), IsInvalidDocumentError},
		{"authorization", NewAuthorizationError("unprotect", "wrong password"), IsAuthorizationError},
		{"argument", NewArgumentError("pattern", "must not be empty"), IsArgumentError},
		{"document", NewDocumentError("open", "broken.docx", errors.New("no such file")), IsDocumentError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.pred(tt.err) {
				t.Errorf("predicate rejected its own error: %v", tt.err)
			}
			if tt.pred(errors.New("unrelated")) {
				t.Error("predicate accepted an unrelated error")
			}
			if tt.pred(nil) {
				t.Error("predicate accepted nil")
			}
		})
	}
}

func TestErrorUnwrapping(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NewDocumentError("save", "out.docx", cause)
	if !errors.Is(err, cause) {
		t.Error("DocumentError must unwrap to its cause")
	}

	wrapped := NewInvalidDocumentError(PartStyles, "parse failed", cause)
	if !errors.Is(wrapped, cause) {
		t.Error("InvalidDocumentError must unwrap to its cause")
	}
}

func TestWithContext(t *testing.T) {
	base := NewRangeError("remove text", 9, 3)
	err := WithContext(base, "replace", map[string]interface{}{"pattern": "foo"})

	if !IsRangeError(err) {
		t.Error("context wrapper must keep the underlying type reachable")
	}
	msg := err.Error()
	if !strings.Contains(msg, "replace") || !strings.Contains(msg, "pattern") {
		t.Errorf("context missing from message: %q", msg)
	}

	if WithContext(nil, "noop", nil) != nil {
		t.Error("WithContext(nil) must stay nil")
	}
}

func TestRangeErrorMessage(t *testing.T) {
	err := NewRangeError("insert text", 12, 5)
	msg := err.Error()
	if !strings.Contains(msg, "12") || !strings.Contains(msg, "insert text") {
		t.Errorf("message = %q", msg)
	}
}
