package logic

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
)

var ErrDigestMismatch = errors.New("digest mismatch")

// Verify checks that an MD5 sum, as lowercase hex, is expected.
func Verify(sum []byte, expected string) error {
	digest := hex.EncodeToString(sum)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(expected)) != 1 {
		return fmt.Errorf("%w: got %s", ErrDigestMismatch, digest)
	}
	return nil
}
