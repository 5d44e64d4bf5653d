package validation

import (
	"strings"
	"testing"
)

type sample struct {
	Timeout string   `validate:"duration"`
	Size    string   `validate:"bytesize"`
	Mode    string   `validate:"oneof=a b"`
	Roles   []string `validate:"min=1"`
}

func TestCustomRules(t *testing.T) {
	v := New()

	ok := sample{Timeout: "10s", Size: "10MB", Mode: "a", Roles: []string{"x"}}
	if err := v.Struct(ok); err != nil {
		t.Fatalf("Expected valid sample, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(s *sample)
		want   string
	}{
		{"duration", func(s *sample) { s.Timeout = "soon" }, "sample.Timeout must be a duration"},
		{"size", func(s *sample) { s.Size = "lots" }, "sample.Size must be a size"},
		{"zero size", func(s *sample) { s.Size = "0B" }, "sample.Size must be a size"},
		{"oneof", func(s *sample) { s.Mode = "c" }, "must be one of: a b"},
		{"min", func(s *sample) { s.Roles = nil }, "sample.Roles must have at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ok
			tt.mutate(&s)
			err := v.Struct(s)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if msg := FormatError(err); !strings.Contains(msg, tt.want) {
				t.Errorf("Expected %q in %q", tt.want, msg)
			}
		})
	}
}
