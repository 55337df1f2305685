package unicodepolicy

import (
	"bytes"
	"testing"
)

func TestValidateStringPermissiveAcceptsAnything(t *testing.T) {
	body := []byte("\x01﻿hello")
	out, diags := ValidateString(body, Permissive, 0)
	if diags.HasErrors() {
		t.Fatalf("permissive mode must never report errors, got %v", diags)
	}
	if !bytes.Equal(out, body) {
		t.Fatalf("permissive mode must pass bytes through unchanged")
	}
}

func TestValidateStringStrictRejectsBOM(t *testing.T) {
	body := []byte("﻿hello")
	_, diags := ValidateString(body, Strict, 0)
	if !diags.HasErrors() {
		t.Fatalf("expected BOM rejection")
	}
}

func TestValidateStringStrictRejectsControlChar(t *testing.T) {
	body := []byte("a\x01b")
	_, diags := ValidateString(body, Strict, 0)
	if !diags.HasErrors() {
		t.Fatalf("expected control character rejection")
	}
}

func TestValidateStringAllowsTabAndNewline(t *testing.T) {
	body := []byte("a\tb\nc")
	_, diags := ValidateString(body, Strict, 0)
	if diags.HasErrors() {
		t.Fatalf("tab and newline must be allowed, got %v", diags)
	}
}

func TestValidateStringStrictRejectsCarriageReturn(t *testing.T) {
	body := []byte("a\rb")
	_, diags := ValidateString(body, Strict, 0)
	if !diags.HasErrors() {
		t.Fatalf("expected carriage-return rejection")
	}
}

func TestValidateStringStrictRejectsNoncharacter(t *testing.T) {
	body := []byte("a\U0001FFFEb")
	_, diags := ValidateString(body, Strict, 0)
	if !diags.HasErrors() {
		t.Fatalf("expected noncharacter rejection")
	}
}

func TestValidateStringSanitiseReplacesInsteadOfFailing(t *testing.T) {
	body := []byte("a\x01b")
	out, diags := ValidateString(body, Sanitise, 0)
	if diags.HasErrors() {
		t.Fatalf("sanitise mode reports diagnostics but is not itself a hard failure path for callers that ignore them")
	}
	if bytes.Equal(out, body) {
		t.Fatalf("sanitise mode must replace the offending byte")
	}
	if !bytes.Contains(out, []byte(string(rune(replacementChar)))) {
		t.Fatalf("expected replacement character in sanitised output, got %q", out)
	}
}

func TestDecodeJSONEscapeBMP(t *testing.T) {
	r, consumedLow, ok := DecodeJSONEscape([4]byte{'0', '0', '4', '1'}, nil)
	if !ok || consumedLow || r != 'A' {
		t.Fatalf("got r=%q consumedLow=%v ok=%v", r, consumedLow, ok)
	}
}

func TestDecodeJSONEscapeSurrogatePair(t *testing.T) {
	hi := [4]byte{'d', '8', '3', 'd'}
	lo := [4]byte{'d', 'e', '0', '0'}
	r, consumedLow, ok := DecodeJSONEscape(hi, &lo)
	if !ok || !consumedLow {
		t.Fatalf("expected surrogate pair to combine, ok=%v consumedLow=%v", ok, consumedLow)
	}
	if r != 0x1F600 {
		t.Fatalf("got %U, want U+1F600", r)
	}
}

func TestDecodeJSONEscapeInvalidHex(t *testing.T) {
	if _, _, ok := DecodeJSONEscape([4]byte{'z', 'z', 'z', 'z'}, nil); ok {
		t.Fatalf("expected failure on non-hex digits")
	}
}

func TestDecodeRustEscape(t *testing.T) {
	r, ok := DecodeRustEscape([]byte("1F600"))
	if !ok || r != 0x1F600 {
		t.Fatalf("got r=%U ok=%v", r, ok)
	}
	if _, ok := DecodeRustEscape([]byte("D800")); ok {
		t.Fatalf("expected surrogate code point to be rejected")
	}
	if _, ok := DecodeRustEscape([]byte("")); ok {
		t.Fatalf("expected empty body to be rejected")
	}
	if _, ok := DecodeRustEscape([]byte("1234567")); ok {
		t.Fatalf("expected too-long body to be rejected")
	}
}

func TestDecodeHexByteEscape(t *testing.T) {
	r, ok := DecodeHexByteEscape('4', '1')
	if !ok || r != 'A' {
		t.Fatalf("got r=%q ok=%v", r, ok)
	}
	if _, ok := DecodeHexByteEscape('z', 'z'); ok {
		t.Fatalf("expected failure on non-hex digits")
	}
}
