package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      &Error{Code: ErrCodeConfig, Message: "invalid configuration"},
			expected: "[CONFIG_ERROR] invalid configuration",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeWrite, "failed to write /etc/dnsmasq.conf", errors.New("permission denied")),
			expected: "[WRITE_ERROR] failed to write /etc/dnsmasq.conf: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "wrapper", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestError_Is(t *testing.T) {
	err1 := &Error{Code: ErrCodeParse, Message: "bad yaml"}
	err2 := &Error{Code: ErrCodeParse, Message: "bad line"}
	err3 := &Error{Code: ErrCodeNotFound, Message: "no file"}

	if !err1.Is(err2) {
		t.Errorf("Expected errors with same code to match")
	}
	if err1.Is(err3) {
		t.Errorf("Expected errors with different codes to not match")
	}
}

func TestHasCode_ThroughWrappingAndJoin(t *testing.T) {
	writeErr := NewWriteError("failed to write hostapd.conf", errors.New("read-only file system"))
	serviceErr := NewServiceError("failed to restart hostapd", errors.New("exit status 1"))
	joined := errors.Join(fmt.Errorf("dnsmasq: %w", writeErr), serviceErr)

	if !HasCode(joined, ErrCodeWrite) {
		t.Errorf("Expected joined error to carry %s", ErrCodeWrite)
	}
	if !HasCode(joined, ErrCodeService) {
		t.Errorf("Expected joined error to carry %s", ErrCodeService)
	}
	if HasCode(joined, ErrCodeParse) {
		t.Errorf("Did not expect %s", ErrCodeParse)
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("ctx: %w", NewParseError("bad", nil))); got != ErrCodeParse {
		t.Errorf("CodeOf() = %q, want %q", got, ErrCodeParse)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf() = %q, want empty", got)
	}
}
