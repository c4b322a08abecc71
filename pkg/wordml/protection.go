package wordml

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"strconv"

	"github.com/beevik/etree"
)

// Document protection per the transitional OOXML scheme: the password is
// verified against a salted hash iterated cryptSpinCount times. This is a
// tamper seal, not encryption; the content stays readable.

const protectionSpinCount = 100000

// ProtectionEdit values for the w:edit attribute.
const (
	ProtectReadOnly       = "readOnly"
	ProtectComments       = "comments"
	ProtectTrackedChanges = "trackedChanges"
	ProtectForms          = "forms"
)

// spinPasswordHash computes the iterated SHA-1 verifier: H0 = SHA1(salt +
// UTF-16LE(password)), then Hn = SHA1(Hn-1 + n-1 as a little-endian uint32)
// for spinCount rounds.
func spinPasswordHash(password string, salt []byte, spinCount int) []byte {
	h := sha1.Sum(append(append([]byte{}, salt...), utf16LEBytes(password)...))
	digest := h[:]
	var counter [4]byte
	for i := 0; i < spinCount; i++ {
		binary.LittleEndian.PutUint32(counter[:], uint32(i))
		h = sha1.Sum(append(digest, counter[:]...))
		digest = h[:]
	}
	return digest
}

func utf16LEBytes(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		if r > 0xFFFF {
			r1, r2 := utf16Surrogates(r)
			out = append(out, byte(r1), byte(r1>>8), byte(r2), byte(r2>>8))
			continue
		}
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}

func utf16Surrogates(r rune) (uint16, uint16) {
	r -= 0x10000
	return uint16(0xD800 + (r >> 10)), uint16(0xDC00 + (r & 0x3FF))
}

// Protect enforces write protection on the document with the given
// password and edit restriction (one of the Protect* constants). Adding
// protection to an already-protected document is a policy violation, not a
// data error.
func (d *Document) Protect(password, edit string) error {
	if password == "" {
		return NewArgumentError("password", "must not be empty")
	}
	if edit == "" {
		edit = ProtectReadOnly
	}
	settings, err := d.ensureSettingsRoot()
	if err != nil {
		return err
	}
	if childByTag(settings, "documentProtection") != nil {
		return NewAuthorizationError("protect", "document is already protected")
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return NewDocumentError("protect", PartSettings, err)
	}
	hash := spinPasswordHash(password, salt, protectionSpinCount)

	prot := etree.NewElement("w:documentProtection")
	prot.CreateAttr("w:edit", edit)
	prot.CreateAttr("w:enforcement", "1")
	prot.CreateAttr("w:cryptProviderType", "rsaFull")
	prot.CreateAttr("w:cryptAlgorithmClass", "hash")
	prot.CreateAttr("w:cryptAlgorithmType", "typeAny")
	prot.CreateAttr("w:cryptAlgorithmSid", "4")
	prot.CreateAttr("w:cryptSpinCount", strconv.Itoa(protectionSpinCount))
	prot.CreateAttr("w:hash", base64.StdEncoding.EncodeToString(hash))
	prot.CreateAttr("w:salt", base64.StdEncoding.EncodeToString(salt))
	settings.InsertChildAt(0, prot)
	d.MarkDirty(PartSettings)
	return nil
}

// Unprotect removes write protection after verifying the password against
// the stored verifier. A wrong password is an authorization error.
func (d *Document) Unprotect(password string) error {
	settings, err := d.partRoot(PartSettings)
	if err != nil {
		return err
	}
	var prot *etree.Element
	if settings != nil {
		prot = childByTag(settings, "documentProtection")
	}
	if prot == nil {
		return NewAuthorizationError("unprotect", "document is not protected")
	}

	salt, err := base64.StdEncoding.DecodeString(attrValue(prot, "salt"))
	if err != nil {
		return NewInvalidDocumentError(PartSettings, "malformed protection salt", err)
	}
	stored, err := base64.StdEncoding.DecodeString(attrValue(prot, "hash"))
	if err != nil {
		return NewInvalidDocumentError(PartSettings, "malformed protection hash", err)
	}
	spin := atoiOrZero(attrValue(prot, "cryptSpinCount"))
	if spin == 0 {
		spin = protectionSpinCount
	}
	computed := spinPasswordHash(password, salt, spin)
	if subtle.ConstantTimeCompare(computed, stored) != 1 {
		return NewAuthorizationError("unprotect", "wrong password")
	}

	settings.RemoveChild(prot)
	d.MarkDirty(PartSettings)
	return nil
}

// IsProtected reports whether the document carries an enforced protection
// element.
func (d *Document) IsProtected() bool {
	settings, err := d.partRoot(PartSettings)
	if err != nil || settings == nil {
		return false
	}
	prot := childByTag(settings, "documentProtection")
	if prot == nil {
		return false
	}
	switch attrValue(prot, "enforcement") {
	case "1", "true", "on":
		return true
	}
	return false
}

// ensureSettingsRoot returns the w:settings root, creating the part when
// the package has none.
func (d *Document) ensureSettingsRoot() (*etree.Element, error) {
	if d.HasPart(PartSettings) {
		return d.partRoot(PartSettings)
	}

	dom := etree.NewDocument()
	dom.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := dom.CreateElement("w:settings")
	root.CreateAttr("xmlns:w", NamespaceW)
	root.CreateAttr("xmlns:r", NamespaceR)

	data, err := dom.WriteToBytes()
	if err != nil {
		return nil, NewDocumentError("create settings", PartSettings, err)
	}
	d.container.SetPart(PartSettings, data)
	d.domParts[PartSettings] = dom
	d.contentTypes.RegisterOverride(PartSettings, ContentTypeSettings)

	rels, err := d.Relationships(PartDocument)
	if err != nil {
		return nil, err
	}
	rels.Add(RelTypeSettings, relTargetFor(PartDocument, PartSettings), "")
	d.markRelsDirty(PartDocument)
	d.MarkDirty(PartSettings)
	return root, nil
}
