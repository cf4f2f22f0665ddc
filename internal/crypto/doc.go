// Package crypto provides the low-level primitives cipherbox is built from.
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - caller-supplied salt (16 bytes or more recommended)
//   - 100,000 iterations by default
//   - 32-byte output for AES-256
//
// Padding follows PKCS#7. Unpad validates in constant time and reports a
// single error for every malformed input.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
package crypto
