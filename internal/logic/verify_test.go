package logic

import (
	"crypto/md5"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sumOf(b []byte) []byte {
	sum := md5.Sum(b)
	return sum[:]
}

func TestVerify(t *testing.T) {
	payload := []byte("the quick brown fox")
	expected := digest(payload)

	assert.Nil(t, Verify(sumOf(payload), expected))

	for i := 0; i < len(payload)*8; i++ {
		mutated := append([]byte{}, payload...)
		mutated[i/8] ^= 1 << (i % 8)
		assert.ErrorIs(t, Verify(sumOf(mutated), expected), ErrDigestMismatch, "bit %d", i)
	}
}

func TestVerifyIsCaseSensitive(t *testing.T) {
	assert.Nil(t, Verify(sumOf(nil), "d41d8cd98f00b204e9800998ecf8427e"))
	assert.ErrorIs(t, Verify(sumOf(nil), "D41D8CD98F00B204E9800998ECF8427E"), ErrDigestMismatch)
}

func TestDefaultDigest(t *testing.T) {
	assert.Equal(t, "cc852cef3cc4bbfc993ba055cca437fc", DefaultConfig().ExpectedMD5)
}
