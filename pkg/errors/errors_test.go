package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad title: %q", "")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeInvalidInput)
	}
	if err.Message != `bad title: ""` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Cause != nil {
		t.Error("New should not set a cause")
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "fetching references")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if got := err.Error(); got != "NETWORK_ERROR: fetching references: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodePaperNotFound, "no match")

	if !Is(err, ErrCodePaperNotFound) {
		t.Error("Is should match the error's code")
	}
	if Is(err, ErrCodeNetwork) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeNetwork) {
		t.Error("Is should not match plain errors")
	}

	// Code matching works through wrapping layers.
	wrapped := fmt.Errorf("outer: %w", err)
	if !Is(wrapped, ErrCodePaperNotFound) {
		t.Error("Is should unwrap to find the code")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeTimeout, "slow")); got != ErrCodeTimeout {
		t.Errorf("GetCode = %s, want %s", got, ErrCodeTimeout)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode for plain error = %s, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := Wrap(ErrCodeNetwork, stderrors.New("dial tcp"), "could not reach the paper source")
	if got := UserMessage(err); got != "could not reach the paper source" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage for plain error = %q", got)
	}
}

func TestIsRecoverable(t *testing.T) {
	if !IsRecoverable(New(ErrCodeNetwork, "timeout")) {
		t.Error("network errors are recoverable")
	}
	if IsRecoverable(New(ErrCodeInternal, "bug")) {
		t.Error("internal errors are not recoverable")
	}
}
