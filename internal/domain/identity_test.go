package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewIdentity(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		displayName string
		wantErr     error
	}{
		{name: "valid", id: "u1", displayName: "Alice"},
		{name: "missing id", id: "", displayName: "Alice", wantErr: ErrIdentityIncomplete},
		{name: "missing display name", id: "u1", displayName: "", wantErr: ErrIdentityIncomplete},
		{name: "display name too long", id: "u1", displayName: strings.Repeat("a", MaxDisplayNameLen+1), wantErr: ErrDisplayNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewIdentity(tt.id, tt.displayName)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewIdentity() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && (got.ID != UserID(tt.id) || got.DisplayName != tt.displayName) {
				t.Errorf("NewIdentity() = %+v", got)
			}
		})
	}
}
