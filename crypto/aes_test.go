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
	"encoding/hex"
	"testing"
)

// NIST test case
var gcmKey, _ = hex.DecodeString("feffe9928665731c6d6a8f9467308308feffe9928665731c6d6a8f9467308308")
var gcmNonce, _ = hex.DecodeString("cafebabefacedbaddecaf888")
var gcmAAD, _ = hex.DecodeString("feedfacedeadbeeffeedfacedeadbeefabaddad2")
var gcmPlaintext, _ = hex.DecodeString("d9313225f88406e5a55909c5aff5269a86a7a9531534f7da2e4c303d8a318a721c3c0c95956809532fcf0e2449a6b525b16aedf5aa0de657ba637b39")
var gcmCiphertextHex = hex.EncodeToString(gcmNonce) + "522dc1f099567d07f47f37a32a84427d643a8cdcbfe5c0c97598a2bd2555d1aa8cb08e48590dbb3da7b08b1056828838c5f61e6393ba7a0abcc9f66276fc6ece0f4e1768cddf8853bb2d551b"

func TestAES256GCMEncryptDecrypt(t *testing.T) {
	crypter := &AES256GCM{&MockRandom{gcmNonce}}
	ciphertext, err := crypter.Encrypt(gcmPlaintext, gcmAAD, gcmKey)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if gcmCiphertextHex != hex.EncodeToString(ciphertext) {
		t.Fatalf("ciphertext doesn't match:\n%s\n%s\n", gcmCiphertextHex, hex.EncodeToString(ciphertext))
	}

	gotPlaintext, err := crypter.Decrypt(ciphertext, gcmAAD, gcmKey)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(gcmPlaintext, gotPlaintext) {
		t.Fatalf("plaintext doesn't match:\n%x\n%x\n", gcmPlaintext, gotPlaintext)
	}
}

func TestAES256GCMWrongTag(t *testing.T) {
	crypter := &AES256GCM{&NativeRandom{}}
	ciphertext, err := crypter.Encrypt(gcmPlaintext, gcmAAD, gcmKey)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// Change a bit in the ciphertext
	ciphertext[len(ciphertext)-1] ^= 1
	if _, err = crypter.Decrypt(ciphertext, gcmAAD, gcmKey); err == nil {
		t.Fatalf("Decryption of modified ciphertext should have failed")
	}
}

func TestAES256GCMWrongAAD(t *testing.T) {
	crypter := &AES256GCM{&NativeRandom{}}
	ciphertext, err := crypter.Encrypt(gcmPlaintext, gcmAAD, gcmKey)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if _, err = crypter.Decrypt(ciphertext, []byte("other data"), gcmKey); err == nil {
		t.Fatalf("Decryption with wrong associated data should have failed")
	}
}

func TestAES256GCMInvalidKeyLength(t *testing.T) {
	crypter := &AES256GCM{&NativeRandom{}}
	if _, err := crypter.Encrypt(gcmPlaintext, gcmAAD, gcmKey[:16]); err == nil {
		t.Fatalf("Encrypt should reject a short key")
	}
	if _, err := crypter.Decrypt(make([]byte, Overhead), gcmAAD, gcmKey[:16]); err == nil {
		t.Fatalf("Decrypt should reject a short key")
	}
}

func TestAES256GCMShortCiphertext(t *testing.T) {
	crypter := &AES256GCM{&NativeRandom{}}
	if _, err := crypter.Decrypt(make([]byte, Overhead-1), gcmAAD, gcmKey); err == nil {
		t.Fatalf("Decrypt should reject a truncated ciphertext")
	}
}
