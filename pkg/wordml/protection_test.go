package wordml

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func TestProtectUnprotectRoundTrip(t *testing.T) {
	doc := openTestDoc(t, "<w:p>"+simpleRun("", "sealed")+"</w:p>")

	if doc.IsProtected() {
		t.Fatal("fresh document must not be protected")
	}
	if err := doc.Protect("hunter2", ProtectReadOnly); err != nil {
		t.Fatalf("Protect error: %v", err)
	}
	if !doc.IsProtected() {
		t.Fatal("IsProtected = false after Protect")
	}
	if err := doc.Unprotect("hunter2"); err != nil {
		t.Fatalf("Unprotect error: %v", err)
	}
	if doc.IsProtected() {
		t.Error("IsProtected = true after Unprotect")
	}
}

func TestProtectSurvivesSave(t *testing.T) {
	doc := openTestDoc(t, "<w:p/>")
	if err := doc.Protect("secret", ProtectTrackedChanges); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		t.Fatal(err)
	}
	reopened, err := OpenBytes(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if !reopened.IsProtected() {
		t.Fatal("protection lost across save/reload")
	}
	if err := reopened.Unprotect("secret"); err != nil {
		t.Errorf("Unprotect after reload error: %v", err)
	}
}

func TestUnprotectWrongPassword(t *testing.T) {
	doc := openTestDoc(t, "<w:p/>")
	if err := doc.Protect("right", ProtectReadOnly); err != nil {
		t.Fatal(err)
	}
	if err := doc.Unprotect("wrong"); !IsAuthorizationError(err) {
		t.Errorf("error = %v, want authorization error", err)
	}
	if !doc.IsProtected() {
		t.Error("failed unprotect must leave protection in place")
	}
}

func TestProtectValidation(t *testing.T) {
	doc := openTestDoc(t, "<w:p/>")

	if err := doc.Protect("", ProtectReadOnly); !IsArgumentError(err) {
		t.Errorf("empty password error = %v, want argument error", err)
	}
	if err := doc.Unprotect("x"); !IsAuthorizationError(err) {
		t.Errorf("unprotecting an unprotected document error = %v, want authorization error", err)
	}

	if err := doc.Protect("pw", ProtectReadOnly); err != nil {
		t.Fatal(err)
	}
	if err := doc.Protect("pw2", ProtectComments); !IsAuthorizationError(err) {
		t.Errorf("double protect error = %v, want authorization error", err)
	}
}

func TestSpinPasswordHash(t *testing.T) {
	salt := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}

	a := spinPasswordHash("password", salt, 100)
	b := spinPasswordHash("password", salt, 100)
	if !bytes.Equal(a, b) {
		t.Error("hash must be deterministic")
	}
	if bytes.Equal(a, spinPasswordHash("Password", salt, 100)) {
		t.Error("hash must be case-sensitive")
	}
	if bytes.Equal(a, spinPasswordHash("password", salt, 101)) {
		t.Error("hash must depend on the spin count")
	}
	if len(a) != 20 {
		t.Errorf("digest length = %d, want 20", len(a))
	}

	// Non-BMP runes must encode as surrogate pairs, two UTF-16 units.
	if got := len(utf16LEBytes("\U0001F600")); got != 4 {
		t.Errorf("surrogate pair bytes = %d, want 4", got)
	}
}

func TestProtectWritesSettings(t *testing.T) {
	doc := openTestDoc(t, "<w:p/>")
	if err := doc.Protect("pw", ProtectForms); err != nil {
		t.Fatal(err)
	}

	root, err := doc.partRoot(PartSettings)
	if err != nil || root == nil {
		t.Fatalf("settings part missing after Protect: %v", err)
	}
	prot := childByTag(root, "documentProtection")
	if prot == nil {
		t.Fatal("no documentProtection element")
	}
	if got := attrValue(prot, "edit"); got != ProtectForms {
		t.Errorf("edit = %q, want %q", got, ProtectForms)
	}
	if got := attrValue(prot, "enforcement"); got != "1" {
		t.Errorf("enforcement = %q, want 1", got)
	}
	salt, err := base64.StdEncoding.DecodeString(attrValue(prot, "salt"))
	if err != nil || len(salt) != 16 {
		t.Errorf("salt must be 16 base64-encoded bytes: %v", err)
	}
	hash, err := base64.StdEncoding.DecodeString(attrValue(prot, "hash"))
	if err != nil || len(hash) != 20 {
		t.Errorf("hash must be a 20-byte SHA-1 digest: %v", err)
	}
}
