package errors

import (
	"bytes"
	stderrors "errors"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantMsg    string
		wantCat    Category
		wantStatus int
	}{
		{"store unavailable", CodeStoreUnavailable, "State store unavailable", CategoryStore, http.StatusInternalServerError},
		{"no session", CodeNoSession, "No session", CategorySession, http.StatusConflict},
		{"item not found", CodeItemNotFound, "Item not found", CategoryNotFound, http.StatusNotFound},
		{"malformed input", CodeMalformedInput, "Malformed input", CategoryValidation, http.StatusBadRequest},
		{"config", CodeConfigInvalid, "Invalid configuration", CategoryConfig, http.StatusInternalServerError},
		{"render", CodeRenderFailed, "Render failed", CategoryRender, http.StatusInternalServerError},
		{"unknown error code", "E999", "Unknown error", "", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
			if got := err.HTTPStatus(); got != tt.wantStatus {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryValidation, "field %q is required", "name")
	if err.Message != `field "name" is required` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Error() != `field "name" is required` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestFromError(t *testing.T) {
	sentinel := stderrors.New("boom")

	if FromError(nil, CodeStoreUnavailable) != nil {
		t.Fatal("FromError(nil) should be nil")
	}

	ae := FromError(sentinel, CodeStoreUnavailable)
	if !stderrors.Is(ae, sentinel) {
		t.Error("wrapped sentinel should be reachable through errors.Is")
	}
	if ae.Error() != "E001: State store unavailable: boom" {
		t.Errorf("Error() = %q", ae.Error())
	}

	if again := FromError(ae, CodeMalformedInput); again != ae {
		t.Error("FromError should return an existing *AppError unchanged")
	}

	var target *AppError
	if !stderrors.As(error(ae), &target) || target.Code != CodeStoreUnavailable {
		t.Error("errors.As should find the *AppError")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()

	err := New(CodeConfigInvalid).
		Wrap(stderrors.New("server.variant must be one of counter, todos, both")).
		WithSuggestion("check hxstate.yaml")
	out := err.Format()

	for _, want := range []string{
		"ERROR E120: Invalid configuration",
		"server.variant must be one of",
		"Hint: check hxstate.yaml",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}

	var buf bytes.Buffer
	PrintError(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("PrintError() = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 40), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if len(lines) < 2 {
		t.Errorf("expected wrapping, got %v", lines)
	}
}

func TestRegistryCodesSorted(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) != 8 {
		t.Fatalf("len(codes) = %d, want 8", len(codes))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	if _, ok := GetTemplate(CodeNoSession); !ok {
		t.Error("GetTemplate(CodeNoSession) not found")
	}
}
