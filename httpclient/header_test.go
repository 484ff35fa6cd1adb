package httpclient

import (
	"net/http"
	"testing"

	apperrors "github.com/kbukum/httpkit/errors"
)

func TestNewHeader(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"valid", "X-Request-ID", "abc-123", false},
		{"empty key", "", "value", true},
		{"empty value", "X-Key", "", true},
		{"space in key", "X Key", "value", true},
		{"newline in value", "X-Key", "a\r\nInjected: yes", true},
		{"colon in key", "X:Key", "value", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHeader(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewHeader(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if err != nil {
				if !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
					t.Errorf("expected INVALID_INPUT app error, got %v", err)
				}
				return
			}
			if h.Key != tt.key || h.Value != tt.value {
				t.Errorf("got %+v", h)
			}
		})
	}
}

func TestMustHeaderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty key")
		}
	}()
	MustHeader("", "v")
}

func TestFlattenHeaders(t *testing.T) {
	h := http.Header{}
	h.Add("X-B", "first")
	h.Add("X-B", "second")
	h.Add("X-A", "only")
	h["X-Empty"] = nil

	got := flattenHeaders(h)
	want := []Header{{Key: "X-A", Value: "only"}, {Key: "X-B", Value: "first"}}
	if len(got) != len(want) {
		t.Fatalf("expected %d headers, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("header %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
