package errors

import (
	stderrors "errors"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk gone")
	err := Wrap(cause, CodeIO, "open input file")

	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped error to unwrap to its cause")
	}
	if !IsCode(err, CodeIO) {
		t.Error("expected CodeIO")
	}
	if IsCode(err, CodeStorage) {
		t.Error("did not expect CodeStorage")
	}
}

func TestAddContextOnDomainError(t *testing.T) {
	err := New(CodeValidation, "bad config")
	err = AddContext(err, CtxPath, "xmastree.toml")

	var de *DomainError
	if !stderrors.As(err, &de) {
		t.Fatal("expected a DomainError")
	}
	if de.Context[CtxPath] != "xmastree.toml" {
		t.Errorf("unexpected context: %v", de.Context)
	}
}

func TestAddContextWrapsForeignError(t *testing.T) {
	cause := stderrors.New("boom")
	err := AddContext(cause, CtxInput, "drv.c")

	if !IsCode(err, CodeInternal) {
		t.Error("expected foreign errors to be wrapped as internal")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected the cause to survive wrapping")
	}
}

func TestIsCodeOnPlainError(t *testing.T) {
	if IsCode(stderrors.New("plain"), CodeIO) {
		t.Error("plain errors carry no code")
	}
}
