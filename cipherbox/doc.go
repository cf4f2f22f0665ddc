// Package cipherbox encrypts byte payloads under a password-derived key.
//
// A Box derives a 256-bit key once with PBKDF2-HMAC-SHA256 and then seals
// messages with AES-256 in CBC mode. Each sealed message is
//
//	base64( IV[16] || AES-256-CBC(key, IV, PKCS#7(plaintext)) )
//
// using standard base64 with padding and no line breaks. A fresh random IV
// is drawn for every Encrypt call, so sealing the same plaintext twice gives
// different output.
//
// # Errors
//
// Every operation returns a *Error whose Kind tells the caller what went
// wrong. Use errors.Is with the package sentinels:
//
//	plaintext, err := box.Decrypt(sealed)
//	switch {
//	case errors.Is(err, cipherbox.ErrDecode):
//		// not base64
//	case errors.Is(err, cipherbox.ErrMalformedInput):
//		// shorter than an IV
//	case errors.Is(err, cipherbox.ErrDecryption):
//		// wrong key, corrupted or tampered
//	}
//
// Decryption failures carry no detail about which check failed, and padding
// is verified in constant time.
//
// # Integrity
//
// CBC provides confidentiality only. There is no authentication tag: a
// modified message is rejected only when the modification breaks the
// padding, which is likely but not guaranteed. Callers that need integrity
// must add it themselves.
package cipherbox
