// Copyright (C) 2024 Bookvault
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"testing"
)

func newRecipient(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	private, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&private.PublicKey)
	if err != nil {
		t.Fatalf("MarshalPKIXPublicKey: %v", err)
	}
	encoded := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return private, string(encoded)
}

func TestRewrapRoundTrip(t *testing.T) {
	rewrapper := &RSARewrapper{}
	private, encoded := newRecipient(t)

	rawKey, err := NewLocatorKey(&NativeRandom{})
	if err != nil {
		t.Fatalf("NewLocatorKey: %v", err)
	}

	public, err := rewrapper.ParsePublicKey(encoded)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}

	wrapped, err := rewrapper.Rewrap(public, rawKey)
	if err != nil {
		t.Fatalf("Rewrap: %v", err)
	}

	wrappedBytes, err := base64.StdEncoding.DecodeString(wrapped)
	if err != nil {
		t.Fatalf("wrapped key is not valid base64: %v", err)
	}
	unwrapped, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, private, wrappedBytes, nil)
	if err != nil {
		t.Fatalf("DecryptOAEP: %v", err)
	}
	if !bytes.Equal(rawKey, unwrapped) {
		t.Fatalf("unwrapped key doesn't match:\n%x\n%x\n", rawKey, unwrapped)
	}
}

func TestRewrapOnlyRecipientCanUnwrap(t *testing.T) {
	rewrapper := &RSARewrapper{}
	_, encoded := newRecipient(t)
	other, _ := newRecipient(t)

	rawKey, err := NewLocatorKey(&NativeRandom{})
	if err != nil {
		t.Fatalf("NewLocatorKey: %v", err)
	}

	public, err := rewrapper.ParsePublicKey(encoded)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	wrapped, err := rewrapper.Rewrap(public, rawKey)
	if err != nil {
		t.Fatalf("Rewrap: %v", err)
	}

	wrappedBytes, _ := base64.StdEncoding.DecodeString(wrapped)
	if _, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, other, wrappedBytes, nil); err == nil {
		t.Fatal("unwrap with the wrong private key should have failed")
	}
}

func TestParsePublicKeyPKCS1(t *testing.T) {
	rewrapper := &RSARewrapper{}
	private, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	der := x509.MarshalPKCS1PublicKey(&private.PublicKey)
	encoded := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: der})

	if _, err := rewrapper.ParsePublicKey(string(encoded)); err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
}

func TestParsePublicKeyInvalid(t *testing.T) {
	rewrapper := &RSARewrapper{}

	edPublic, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("ed25519.GenerateKey: %v", err)
	}
	edDER, err := x509.MarshalPKIXPublicKey(edPublic)
	if err != nil {
		t.Fatalf("MarshalPKIXPublicKey: %v", err)
	}

	smallRSA, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	smallDER, err := x509.MarshalPKIXPublicKey(&smallRSA.PublicKey)
	if err != nil {
		t.Fatalf("MarshalPKIXPublicKey: %v", err)
	}

	inputs := []string{
		"",
		"not a pem block",
		string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: []byte("garbage")})),
		string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: edDER})),
		string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: smallDER})),
	}
	for i, input := range inputs {
		if _, err := rewrapper.ParsePublicKey(input); !errors.Is(err, ErrInvalidPublicKey) {
			t.Fatalf("input %d: expected %v but got %v", i, ErrInvalidPublicKey, err)
		}
	}
}
