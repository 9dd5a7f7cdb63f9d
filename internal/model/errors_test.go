package model

import (
	"errors"
	"testing"
)

func TestIsMatchesKindThroughWrapping(t *testing.T) {
	inner := NewConfigError("bad catalog")
	wrapped := &Error{Kind: InstanceError, Msg: "while loading", Err: inner}
	if !Is(wrapped, InstanceError) {
		t.Fatalf("Is did not match the outer Kind")
	}
	if Is(wrapped, ConfigError) {
		t.Fatalf("Is matched the wrapped error's Kind instead of the outer one")
	}
}

func TestIsFalseForPlainErrors(t *testing.T) {
	if Is(errors.New("boom"), ConfigError) {
		t.Fatalf("Is matched a plain error")
	}
	if Is(nil, ConfigError) {
		t.Fatalf("Is matched nil")
	}
}
