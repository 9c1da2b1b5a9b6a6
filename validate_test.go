package ansimark

import (
	"bytes"
	"strings"
	"testing"
)

func TestValidateInputRejectsInvalidUTF8(t *testing.T) {
	data := []byte{0xff, 0xfe, 0xfd}
	if err := ValidateInput(data); err != ErrInvalidUTF8 {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestValidateInputRejectsBinary(t *testing.T) {
	data := append([]byte("hello"), 0x00)
	if err := ValidateInput(data); err != ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
	noisy := bytes.Repeat([]byte{'a', 0x01}, 64)
	if err := ValidateInput(noisy); err != ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput for control-heavy input, got %v", err)
	}
}

func TestValidateInputAllowsMarkup(t *testing.T) {
	tagged := strings.Repeat("\x02c red\x03x\x02c/\x03\x1b[0m\n\t", 32)
	if err := ValidateInput([]byte(tagged)); err != nil {
		t.Fatalf("tagged text rejected: %v", err)
	}
	if err := ValidateInput(nil); err != nil {
		t.Fatalf("empty input rejected: %v", err)
	}
}
