package protocol

import "testing"

func TestIsKnownCode(t *testing.T) {
	for _, code := range []string{ErrProtoBadRequest, ErrBadSnapshot, ErrInternal} {
		if !IsKnownCode(code) {
			t.Fatalf("%s should be registered", code)
		}
	}
	// No code at all is fine; an unregistered one is not.
	if !IsKnownCode("") {
		t.Fatalf("empty code should be accepted")
	}
	if IsKnownCode("E_BOGUS") {
		t.Fatalf("unregistered code accepted")
	}
}
