package hash

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC32C(t *testing.T) {
	// Known check value for the Castagnoli polynomial.
	assert.Equal(t, uint32(0xe3069283), CRC32C([]byte("123456789")))

	h := NewCRC32C()
	_, _ = h.Write([]byte("1234"))
	_, _ = h.Write([]byte("56789"))
	assert.Equal(t, CRC32C([]byte("123456789")), h.Sum32())
}

func TestVerify(t *testing.T) {
	data := []byte("edges")
	require.NoError(t, Verify("edges", data, CRC32C(data)))

	err := Verify("edges", data, 0)
	var ce *ChecksumError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "edges", ce.Name)
	assert.Contains(t, err.Error(), "checksum mismatch for edges")
}
