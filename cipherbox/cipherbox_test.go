package cipherbox

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
)

// testIterations keeps derivation fast; the known scenario uses the
// recommended count.
const testIterations = 1000

func newTestBox(t *testing.T, password string, opts ...Option) *Box {
	t.Helper()
	box, err := New([]byte(password), []byte("0123456789abcdef"), testIterations, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return box
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("Failed to read random bytes: %v", err)
	}
	return b
}

func TestKnownScenario(t *testing.T) {
	box, err := New([]byte("correct horse battery staple"), make([]byte, 16), 100000)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	sealed, err := box.Encrypt([]byte("hello"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// 16 byte IV + one padded block = 32 bytes = 44 base64 characters
	if len(sealed) != 44 {
		t.Errorf("Expected 44 characters, got %d (%q)", len(sealed), sealed)
	}

	plaintext, err := box.Decrypt(sealed)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(plaintext) != "hello" {
		t.Errorf("Expected %q, got %q", "hello", plaintext)
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	box := newTestBox(t, "round-trip")

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"empty", []byte{}},
		{"nil", nil},
		{"short", []byte("hello")},
		{"one short of a block", bytes.Repeat([]byte{'x'}, 15)},
		{"exactly one block", bytes.Repeat([]byte{'x'}, 16)},
		{"one past a block", bytes.Repeat([]byte{'x'}, 17)},
		{"unicode", []byte("こんにちは世界")},
		{"padding-like tail", bytes.Repeat([]byte{0x10}, 32)},
		{"binary", randomBytes(t, 4096+7)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sealed, err := box.Encrypt(tc.plaintext)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}

			plaintext, err := box.Decrypt(sealed)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}
			if !bytes.Equal(plaintext, tc.plaintext) {
				t.Errorf("Round trip mismatch: expected %d bytes, got %d", len(tc.plaintext), len(plaintext))
			}
		})
	}
}

func TestDecryptEmptyPlaintextIsNotNil(t *testing.T) {
	box := newTestBox(t, "empty")

	sealed, err := box.Encrypt(nil)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	plaintext, err := box.Decrypt(sealed)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if plaintext == nil || len(plaintext) != 0 {
		t.Errorf("Expected empty non-nil plaintext, got %v", plaintext)
	}
}

func TestEncryptOutputLength(t *testing.T) {
	box := newTestBox(t, "length")

	for _, n := range []int{0, 1, 15, 16, 17, 31, 32, 100, 1000} {
		sealed, err := box.Encrypt(make([]byte, n))
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}

		raw := IVSize + (n/16+1)*16
		want := 4 * ((raw + 2) / 3)
		if len(sealed) != want {
			t.Errorf("Plaintext of %d bytes: expected %d characters, got %d", n, want, len(sealed))
		}
		if strings.ContainsAny(sealed, "\r\n") {
			t.Errorf("Plaintext of %d bytes: output contains line breaks", n)
		}
	}
}

func TestEncryptProducesDifferentCiphertexts(t *testing.T) {
	box := newTestBox(t, "nondeterminism")
	plaintext := []byte("same input")

	enc1, err := box.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	enc2, err := box.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if enc1 == enc2 {
		t.Error("Encrypting the same plaintext twice should produce different output due to random IV")
	}
}

func TestEncryptPrefixesIV(t *testing.T) {
	iv := []byte("fixed-iv-16bytes")
	box := newTestBox(t, "iv", WithRandom(bytes.NewReader(iv)))

	sealed, err := box.Encrypt([]byte("payload"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		t.Fatalf("Output is not base64: %v", err)
	}
	if !bytes.Equal(raw[:IVSize], iv) {
		t.Errorf("Expected IV %q, got %q", iv, raw[:IVSize])
	}
	if len(raw) != IVSize+16 {
		t.Errorf("Expected %d bytes, got %d", IVSize+16, len(raw))
	}
}

func TestEncryptRandomFailure(t *testing.T) {
	box := newTestBox(t, "random", WithRandom(iotest.ErrReader(errors.New("entropy exhausted"))))

	_, err := box.Encrypt([]byte("data"))
	if !errors.Is(err, ErrRandom) {
		t.Errorf("Expected ErrRandom, got %v", err)
	}
}

func flipByte(t *testing.T, sealed string, index int) string {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		t.Fatalf("Output is not base64: %v", err)
	}
	raw[index] ^= 0xff
	return base64.StdEncoding.EncodeToString(raw)
}

func TestTamperPenultimateBlock(t *testing.T) {
	box := newTestBox(t, "tamper")

	// A block-aligned plaintext ends in a full padding block, so any flip in
	// the block before it corrupts a padding byte.
	sealed, err := box.Encrypt(bytes.Repeat([]byte{'a'}, 32))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// IV | C1 | C2 | C3(padding)
	for i := IVSize + 16; i < IVSize+32; i++ {
		_, err := box.Decrypt(flipByte(t, sealed, i))
		if !errors.Is(err, ErrDecryption) {
			t.Errorf("Byte %d flipped: expected ErrDecryption, got %v", i, err)
		}
	}
}

func TestTamperLastBlock(t *testing.T) {
	box := newTestBox(t, "tamper")

	// A flip in the last block garbles it; valid padding survives by chance
	// roughly once in 256 tries.
	failures := 0
	trials := 0
	for trial := 0; trial < 4; trial++ {
		sealed, err := box.Encrypt([]byte("attack at dawn"))
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		for i := IVSize; i < IVSize+16; i++ {
			trials++
			if _, err := box.Decrypt(flipByte(t, sealed, i)); errors.Is(err, ErrDecryption) {
				failures++
			}
		}
	}

	if failures < trials-8 {
		t.Errorf("Expected nearly all of %d tampered messages to fail, only %d did", trials, failures)
	}
}

func TestDecryptShortInput(t *testing.T) {
	box := newTestBox(t, "short")

	tests := []struct {
		name   string
		sealed string
	}{
		{"empty", ""},
		{"one byte", "YQ=="},
		{"fifteen bytes", base64.StdEncoding.EncodeToString(make([]byte, 15))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := box.Decrypt(tc.sealed)
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("Expected ErrMalformedInput, got %v", err)
			}
		})
	}
}

func TestDecryptBadCiphertextLength(t *testing.T) {
	box := newTestBox(t, "length")

	tests := []struct {
		name string
		size int
	}{
		{"IV only", IVSize},
		{"partial block", IVSize + 15},
		{"block and a bit", IVSize + 17},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := box.Decrypt(base64.StdEncoding.EncodeToString(make([]byte, tc.size)))
			if !errors.Is(err, ErrDecryption) {
				t.Errorf("Expected ErrDecryption, got %v", err)
			}
		})
	}
}

func TestDecryptInvalidEncoding(t *testing.T) {
	box := newTestBox(t, "encoding")

	for _, sealed := range []string{"not-valid-base64!!!", "@@@@", "YQ=", "AAAAAAAAAAAAAAAAAAAAAA*="} {
		_, err := box.Decrypt(sealed)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("%q: expected ErrDecode, got %v", sealed, err)
		}
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	plaintext := randomBytes(t, 64*1024)

	box1 := newTestBox(t, "key-one")
	tests := []struct {
		name     string
		password string
		salt     []byte
	}{
		{"different password", "key-two", []byte("0123456789abcdef")},
		{"different salt", "key-one", []byte("fedcba9876543210")},
	}

	sealed, err := box1.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			box2, err := New([]byte(tc.password), tc.salt, testIterations)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			// Padding can validate by chance; the plaintext must still be wrong.
			decrypted, err := box2.Decrypt(sealed)
			if err == nil {
				if bytes.Equal(decrypted, plaintext) {
					t.Fatal("Different key recovered the plaintext")
				}
				return
			}
			if !errors.Is(err, ErrDecryption) {
				t.Errorf("Expected ErrDecryption, got %v", err)
			}
		})
	}
}

func TestDecryptionErrorsAreUniform(t *testing.T) {
	box := newTestBox(t, "uniform")
	other := newTestBox(t, "other")

	sealed, err := other.Encrypt(bytes.Repeat([]byte{'z'}, 48))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	_, wrongKey := box.Decrypt(sealed)
	_, badLength := box.Decrypt(base64.StdEncoding.EncodeToString(make([]byte, IVSize+5)))

	for _, err := range []error{wrongKey, badLength} {
		if err == nil {
			continue
		}
		if err.Error() != "cipherbox: decrypt: decryption failed" {
			t.Errorf("Unexpected decryption error message %q", err.Error())
		}
		if errors.Unwrap(err) != nil {
			t.Errorf("Decryption error should not carry a cause, got %v", errors.Unwrap(err))
		}
	}
}

func TestNewRejectsIterations(t *testing.T) {
	for _, iters := range []int{0, -1} {
		box, err := New([]byte("password"), make([]byte, 16), iters)
		if !errors.Is(err, ErrKeyDerivation) {
			t.Errorf("Iterations %d: expected ErrKeyDerivation, got %v", iters, err)
		}
		if box != nil {
			t.Errorf("Iterations %d: expected nil box", iters)
		}
		if KindOf(err) != KeyDerivation {
			t.Errorf("Iterations %d: expected kind %v, got %v", iters, KeyDerivation, KindOf(err))
		}
	}
}

func TestNewAcceptsEmptySalt(t *testing.T) {
	box, err := New([]byte("password"), nil, testIterations)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	sealed, err := box.Encrypt([]byte("no salt"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if _, err := box.Decrypt(sealed); err != nil {
		t.Errorf("Decrypt failed: %v", err)
	}
}

func TestDestroy(t *testing.T) {
	box := newTestBox(t, "destroy")
	sealed, err := box.Encrypt([]byte("before"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	key := box.key
	box.Destroy()
	box.Destroy()

	if !bytes.Equal(key, make([]byte, KeySize)) {
		t.Error("Key should be zeroed after Destroy")
	}
	if _, err := box.Encrypt([]byte("after")); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Expected ErrDestroyed from Encrypt, got %v", err)
	}
	if _, err := box.Decrypt(sealed); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Expected ErrDestroyed from Decrypt, got %v", err)
	}
}

func TestConcurrentUse(t *testing.T) {
	box := newTestBox(t, "concurrent")

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			plaintext := bytes.Repeat([]byte{byte(i)}, i*7)
			sealed, err := box.Encrypt(plaintext)
			if err != nil {
				errs <- err
				return
			}
			decrypted, err := box.Decrypt(sealed)
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(decrypted, plaintext) {
				errs <- errors.New("round trip mismatch")
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestErrorMatching(t *testing.T) {
	err := newError("decrypt", Decode, errors.New("bad byte"))

	if !errors.Is(err, ErrDecode) {
		t.Error("Expected error to match ErrDecode")
	}
	if errors.Is(err, ErrDecryption) {
		t.Error("Decode error should not match ErrDecryption")
	}
	if !errors.Is(err, &Error{Op: "decrypt", Kind: Decode}) {
		t.Error("Expected error to match same op and kind")
	}
	if errors.Is(err, &Error{Op: "encrypt", Kind: Decode}) {
		t.Error("Error should not match a different op")
	}
	if KindOf(errors.New("plain")) != 0 {
		t.Error("Plain error should have no kind")
	}
	if got := err.Error(); got != "cipherbox: decrypt: invalid encoding: bad byte" {
		t.Errorf("Unexpected message %q", got)
	}
}

func TestSuite(t *testing.T) {
	box := newTestBox(t, "suite")

	if box.Suite() != DefaultSuite {
		t.Errorf("Expected default suite, got %+v", box.Suite())
	}
	if got := box.Suite().String(); got != "pbkdf2-hmac-sha256/aes-256-cbc/pkcs7/base64-std" {
		t.Errorf("Unexpected suite string %q", got)
	}
}
