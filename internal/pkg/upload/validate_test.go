package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}

func TestValidateImageBySniff_AllowedTypes(t *testing.T) {
	mime, err := ValidateImageBySniff("photo.png", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	mime, err = ValidateImageBySniff("photo.JPG", jpegHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
}

func TestValidateImageBySniff_RejectsUnknownExtension(t *testing.T) {
	_, err := ValidateImageBySniff("photo.svg", pngHeader)
	assert.Error(t, err)

	_, err = ValidateImageBySniff("photo.exe", pngHeader)
	assert.Error(t, err)
}

func TestValidateImageBySniff_RejectsMismatchedContent(t *testing.T) {
	// A file named .png that actually contains HTML must not pass.
	_, err := ValidateImageBySniff("photo.png", []byte("<html><body>x</body></html>"))
	assert.Error(t, err)

	_, err = ValidateImageBySniff("photo.png", []byte("<?xml version=\"1.0\"?><svg></svg>"))
	assert.Error(t, err)
}

func TestValidateImageBySniff_RejectsPlainText(t *testing.T) {
	_, err := ValidateImageBySniff("photo.png", []byte("just some text"))
	assert.Error(t, err)
}
