package credential

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(filepath.Join(t.TempDir(), "credential.json"))
}

func TestVerifyDefaultSecretOnFirstRun(t *testing.T) {
	m := testManager(t)

	ok, err := m.Verify(DefaultSecret)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("default secret should verify on first run")
	}

	// First access must have persisted the record.
	if _, err := os.Stat(m.path); err != nil {
		t.Errorf("expected credential file to be created: %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	m := testManager(t)

	ok, err := m.Verify("not-the-secret")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("wrong secret must not verify")
	}
}

func TestRotateSuccess(t *testing.T) {
	m := testManager(t)

	if err := m.Rotate(DefaultSecret, "s3cret"); err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	if ok, _ := m.Verify("s3cret"); !ok {
		t.Error("new secret should verify after rotation")
	}
	if ok, _ := m.Verify(DefaultSecret); ok {
		t.Error("old secret must not verify after rotation")
	}
}

func TestRotateRejectedLeavesRecordUnchanged(t *testing.T) {
	m := testManager(t)

	if err := m.Rotate(DefaultSecret, "s3cret"); err != nil {
		t.Fatalf("initial rotation: %v", err)
	}
	before, err := os.ReadFile(m.path)
	if err != nil {
		t.Fatal(err)
	}

	err = m.Rotate("wrong-old", "evil")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}

	after, err := os.ReadFile(m.path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("rejected rotation modified the credential file")
	}
	if ok, _ := m.Verify("s3cret"); !ok {
		t.Error("active secret should still verify after a rejected rotation")
	}
	if ok, _ := m.Verify("evil"); ok {
		t.Error("rejected new secret must not verify")
	}
}

func TestHashNeverStoresPlaintext(t *testing.T) {
	m := testManager(t)

	if err := m.Rotate(DefaultSecret, "hunter2"); err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 || strings.Contains(string(data), "hunter2") {
		t.Error("credential file contains the plaintext secret")
	}
}

func TestCorruptCredentialFile(t *testing.T) {
	m := testManager(t)
	if err := os.WriteFile(m.path, []byte("{bad"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := m.Verify("anything")
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}
