// Copyright (C) 2025 obsws-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package handshake

import (
	"crypto/sha256"
	"encoding/base64"
)

// AuthResponse computes the authentication string for an Identify
// reply:
//
//	secret = base64(SHA256(password || salt))
//	auth   = base64(SHA256(secret || challenge))
//
// Concatenation is byte-level over UTF-8; digests are 32-byte binary
// before base64; base64 is the standard alphabet with padding.
func AuthResponse(password, salt, challenge string) string {
	secretDigest := sha256.Sum256(append([]byte(password), []byte(salt)...))
	secret := base64.StdEncoding.EncodeToString(secretDigest[:])

	authDigest := sha256.Sum256(append([]byte(secret), []byte(challenge)...))
	return base64.StdEncoding.EncodeToString(authDigest[:])
}
