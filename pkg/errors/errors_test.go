package errors

import (
	stderrors "errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeLineNotFound, "line %d does not exist", 7)

	if err.Code != ErrCodeLineNotFound {
		t.Errorf("code = %q, want %q", err.Code, ErrCodeLineNotFound)
	}
	if err.Message != "line 7 does not exist" {
		t.Errorf("message = %q", err.Message)
	}
	if !strings.Contains(err.Error(), "LINE_NOT_FOUND") {
		t.Errorf("Error() = %q, missing code", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeStorage, cause, "save snapshot %s", "abc")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause not found in chain")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q, missing cause", err.Error())
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInvalidSnapshot, "bad data")
	wrapped := fmt.Errorf("loading: %w", err)

	if !Is(wrapped, ErrCodeInvalidSnapshot) {
		t.Error("Is failed through wrapping")
	}
	if Is(wrapped, ErrCodeLineNotFound) {
		t.Error("Is matched the wrong code")
	}
	if Is(fmt.Errorf("plain"), ErrCodeInternal) {
		t.Error("Is matched a plain error")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeConsistency, "x")); got != ErrCodeConsistency {
		t.Errorf("GetCode = %q", got)
	}
	if got := GetCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodePointNotFound, "point 3 does not exist")
	if got := UserMessage(err); got != "point 3 does not exist" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(fmt.Errorf("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestValidateLineName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "U6 Garching", false},
		{"Empty", "", true},
		{"ControlChar", "Line\x001", true},
		{"TooLong", strings.Repeat("x", 129), true},
		{"Unicode", "Straßenbahn 19", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLineName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("code = %q, want INVALID_NAME", GetCode(err))
			}
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	if err := ValidateCoordinates(48.13, 11.57); err != nil {
		t.Errorf("valid coordinates rejected: %v", err)
	}
	if err := ValidateCoordinates(math.NaN(), 0); err == nil {
		t.Error("NaN accepted")
	}
	if err := ValidateCoordinates(0, math.Inf(1)); err == nil {
		t.Error("Inf accepted")
	}
}
