package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cause := errors.New("permission denied")

	err := New(ReadFailed, "cannot read src/main.zig", cause)

	if err.Code != ReadFailed {
		t.Errorf("Code = %v, want %v", err.Code, ReadFailed)
	}
	if err.Message != "cannot read src/main.zig" {
		t.Errorf("Message = %q, want %q", err.Message, "cannot read src/main.zig")
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}

func TestNew_AttachesDefaultFixes(t *testing.T) {
	err := New(ParserUnavailable, "no grammar", nil)
	if len(err.SuggestedFixes) != 1 {
		t.Fatalf("len(SuggestedFixes) = %d, want 1", len(err.SuggestedFixes))
	}
	if !strings.Contains(err.SuggestedFixes[0].Command, "CGO_ENABLED=1") {
		t.Errorf("unexpected fix command %q", err.SuggestedFixes[0].Command)
	}
}

func TestZigdocError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      StoreFailed,
			message:   "cannot open index",
			cause:     errors.New("database is locked"),
			wantParts: []string{"STORE_FAILED", "cannot open index", "database is locked"},
		},
		{
			name:      "without cause",
			code:      FileNotFound,
			message:   "module 'foo.zig' not indexed",
			wantParts: []string{"FILE_NOT_FOUND", "module 'foo.zig' not indexed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.code, tt.message, tt.cause).Error()

			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(UnsupportedFormat, "unknown format %q", "xml")
	if err.Message != `unknown format "xml"` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Unwrap() != nil {
		t.Error("Newf should not set a cause")
	}
}

func TestZigdocError_WithDetails(t *testing.T) {
	err := New(InvalidOption, "bad emission policy", nil)
	result := err.WithDetails(map[string]string{"value": "some"})

	if result != err {
		t.Error("WithDetails should return the same error for chaining")
	}
	if err.Details == nil {
		t.Error("Details should be set")
	}
}

func TestIsCodeAndCodeOf(t *testing.T) {
	base := New(ParseFailed, "parse failed", nil)
	wrapped := fmt.Errorf("extract a.zig: %w", base)

	if !IsCode(wrapped, ParseFailed) {
		t.Error("IsCode should see through fmt wrapping")
	}
	if IsCode(wrapped, ReadFailed) {
		t.Error("IsCode matched the wrong code")
	}
	if IsCode(nil, ParseFailed) {
		t.Error("IsCode(nil) should be false")
	}
	if got := CodeOf(wrapped); got != ParseFailed {
		t.Errorf("CodeOf = %v, want %v", got, ParseFailed)
	}
	if got := CodeOf(errors.New("plain")); got != InternalError {
		t.Errorf("CodeOf(plain) = %v, want %v", got, InternalError)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(FileNotFound, "x", nil), http.StatusNotFound},
		{New(InvalidOption, "x", nil), http.StatusBadRequest},
		{New(UnsupportedFormat, "x", nil), http.StatusBadRequest},
		{New(ParseFailed, "x", nil), http.StatusUnprocessableEntity},
		{New(ParserUnavailable, "x", nil), http.StatusServiceUnavailable},
		{New(StoreFailed, "x", nil), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestGetSuggestedFixes(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		wantNil bool
	}{
		{ParserUnavailable, false},
		{StoreFailed, false},
		{UnsupportedFormat, false},
		{InvalidOption, false},
		{FileNotFound, true},
		{InternalError, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			fixes := GetSuggestedFixes(tt.code)
			if tt.wantNil && fixes != nil {
				t.Errorf("GetSuggestedFixes(%v) = %v, want nil", tt.code, fixes)
			}
			if !tt.wantNil && len(fixes) == 0 {
				t.Errorf("GetSuggestedFixes(%v) returned no fixes", tt.code)
			}
		})
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		ParserUnavailable,
		FileNotFound,
		ReadFailed,
		ParseFailed,
		InvalidOption,
		StoreFailed,
		UnsupportedFormat,
		InternalError,
	}

	seen := make(map[ErrorCode]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %v", code)
		}
		seen[code] = true
		if string(code) == "" {
			t.Error("Error code should not be empty")
		}
	}
}

func TestErrorActionsMap(t *testing.T) {
	for code, fixes := range ErrorActions {
		if len(fixes) == 0 {
			t.Errorf("ErrorActions[%v] has no fix actions", code)
		}
		for i, fix := range fixes {
			if fix.Type == "" {
				t.Errorf("ErrorActions[%v][%d].Type is empty", code, i)
			}
		}
	}
}
