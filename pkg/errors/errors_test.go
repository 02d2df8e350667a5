package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnknownOption, "no option: %s", "roughness")

	if err.Code != ErrCodeUnknownOption {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnknownOption)
	}

	if err.Message != "no option: roughness" {
		t.Errorf("Message = %v, want %v", err.Message, "no option: roughness")
	}

	expected := "UNKNOWN_OPTION: no option: roughness"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidScene, cause, "failed to read")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeUnknownIdentity, "x"), ErrCodeUnknownIdentity, true},
		{"different code", New(ErrCodeUnknownIdentity, "x"), ErrCodeUnknownOption, false},
		{"plain error", errors.New("x"), ErrCodeUnknownIdentity, false},
		{"nil", nil, ErrCodeUnknownIdentity, false},
		{"wrapped by fmt", wrapf(New(ErrCodeIncompleteAction, "x")), ErrCodeIncompleteAction, true},
		{
			"joined",
			errors.Join(New(ErrCodeInvalidPath, "a"), New(ErrCodeIncompleteAction, "b")),
			ErrCodeIncompleteAction,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := New(ErrCodeAmbiguousIdentity, "collision on %q", "/Root")
	if GetCode(err) != ErrCodeAmbiguousIdentity {
		t.Errorf("GetCode() = %v", GetCode(err))
	}
	if GetCode(errors.New("plain")) != "" {
		t.Error("GetCode() of plain error should be empty")
	}
	if UserMessage(err) != `collision on "/Root"` {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
	if UserMessage(errors.New("plain")) != "plain" {
		t.Error("UserMessage() of plain error should be its text")
	}
}

type wrapped struct{ inner error }

func (w wrapped) Error() string { return "context: " + w.inner.Error() }
func (w wrapped) Unwrap() error { return w.inner }

func wrapf(err error) error { return wrapped{err} }
