package solkey

import (
	"errors"
	"testing"
)

func TestValidate_GeneratedAddress(t *testing.T) {
	addr, err := NewAddress()
	if err != nil {
		t.Fatalf("NewAddress failed: %v", err)
	}

	if err := Validate(addr); err != nil {
		t.Errorf("Validate(%s) = %v, want nil", addr, err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		addr string
	}{
		{"empty", ""},
		{"not base58", "0OIl+/="},
		{"too short", "abc"},
		{"wrong length", "3yZe7d"}, // decodes but not 32 bytes
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.addr)
			if !errors.Is(err, ErrInvalidAddress) {
				t.Errorf("Validate(%q) = %v, want ErrInvalidAddress", tt.addr, err)
			}
		})
	}
}

func TestNewAddress_Unique(t *testing.T) {
	a, err := NewAddress()
	if err != nil {
		t.Fatalf("NewAddress failed: %v", err)
	}
	b, err := NewAddress()
	if err != nil {
		t.Fatalf("NewAddress failed: %v", err)
	}
	if a == b {
		t.Error("two generated addresses should differ")
	}
}
