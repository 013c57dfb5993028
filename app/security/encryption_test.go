package security

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	dir := t.TempDir()

	sealed, err := Encrypt(dir, "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", sealed)

	plain, err := Decrypt(dir, sealed)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", plain)

	info, err := os.Stat(dir + "/" + keyFileName)
	require.NoError(t, err)
	assert.Equal(t, int64(32), info.Size())
}

func TestEncryptEmptyValue(t *testing.T) {
	sealed, err := Encrypt(t.TempDir(), "")
	require.NoError(t, err)
	assert.Empty(t, sealed)
}

func TestDecryptPlainTextFails(t *testing.T) {
	dir := t.TempDir()

	_, err := Decrypt(dir, "not-base64!")
	assert.Error(t, err)

	_, err = Decrypt(dir, "YWJj")
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestDecryptWithOtherKeyFails(t *testing.T) {
	sealed, err := Encrypt(t.TempDir(), "value")
	require.NoError(t, err)

	_, err = Decrypt(t.TempDir(), sealed)
	assert.Error(t, err)
}
