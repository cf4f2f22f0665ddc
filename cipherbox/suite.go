package cipherbox

// KDFAlgorithm names a password-based key derivation function.
type KDFAlgorithm string

// CipherAlgorithm names a block cipher and its key size.
type CipherAlgorithm string

// Mode names a block cipher mode of operation.
type Mode string

// Padding names a block padding scheme.
type Padding string

// Encoding names the text encoding of a sealed message.
type Encoding string

const (
	// KDFPBKDF2SHA256 is PBKDF2 with HMAC-SHA256.
	KDFPBKDF2SHA256 KDFAlgorithm = "pbkdf2-hmac-sha256"

	// CipherAES256 is AES with a 256-bit key.
	CipherAES256 CipherAlgorithm = "aes-256"

	// ModeCBC is cipher block chaining.
	ModeCBC Mode = "cbc"

	// PaddingPKCS7 is PKCS#7 padding to the cipher block size.
	PaddingPKCS7 Padding = "pkcs7"

	// EncodingBase64 is standard base64 with padding and no line breaks.
	EncodingBase64 Encoding = "base64-std"
)

// Suite describes the algorithms a Box uses. There is one suite; it is
// exposed so callers can record what produced a sealed message.
type Suite struct {
	KDF      KDFAlgorithm
	Cipher   CipherAlgorithm
	Mode     Mode
	Padding  Padding
	Encoding Encoding
}

// DefaultSuite is the suite every Box uses.
var DefaultSuite = Suite{
	KDF:      KDFPBKDF2SHA256,
	Cipher:   CipherAES256,
	Mode:     ModeCBC,
	Padding:  PaddingPKCS7,
	Encoding: EncodingBase64,
}

// String returns the suite as "kdf/cipher-mode/padding/encoding".
func (s Suite) String() string {
	return string(s.KDF) + "/" + string(s.Cipher) + "-" + string(s.Mode) + "/" + string(s.Padding) + "/" + string(s.Encoding)
}
