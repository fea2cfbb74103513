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

package data

// PurchaseBundle is the purchase protocol's per-request output: one wrapped
// key and one sealed locator per book, positionally aligned with the
// resolved catalogue. It exists only for a single request/response cycle and
// is never persisted.
type PurchaseBundle struct {
	// Base64 encodings of the books' symmetric keys, each re-encrypted under
	// the caller-supplied public key at the same position.
	WrappedKeys []string `json:"wrapped_keys"`

	// The books' stored locator ciphertexts, already encrypted at rest under
	// the books' own keys.
	SealedLocators []string `json:"sealed_locators"`
}
