package services

import (
	"errors"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
		message  string
	}{
		{NotFoundf("Child not found"), ErrNotFound, "Child not found"},
		{Forbiddenf("Not authorized to %s", "delete"), ErrForbidden, "Not authorized to delete"},
		{Invalidf("Parent ID is required"), ErrValidation, "Parent ID is required"},
	}

	for _, tc := range cases {
		if !errors.Is(tc.err, tc.sentinel) {
			t.Errorf("%v: expected errors.Is against %v", tc.err, tc.sentinel)
		}
		if tc.err.Error() != tc.message {
			t.Errorf("Expected message %q, got %q", tc.message, tc.err.Error())
		}
	}

	// Kinds never match each other.
	if errors.Is(NotFoundf("x"), ErrForbidden) {
		t.Error("Not-found error must not match ErrForbidden")
	}
}
