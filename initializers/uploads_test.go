package initializers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckFileAllowed(t *testing.T) {
	Conf = MinioConfig{
		MaxSize:   1024,
		FileTypes: []string{"application/pdf", "image/png"},
	}

	assert.NoError(t, CheckFileAllowed(512, "application/pdf"))
	assert.NoError(t, CheckFileAllowed(512, "application/pdf; charset=binary"))
	assert.Error(t, CheckFileAllowed(2048, "application/pdf"), "oversized file")
	assert.Error(t, CheckFileAllowed(512, "application/zip"), "disallowed type")
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "notes.pdf", sanitizeFilename("notes.pdf"))
	assert.Equal(t, "etcpasswd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "my notes.pdf", sanitizeFilename(`my  "notes".pdf`))
	assert.Equal(t, "file", sanitizeFilename("\x00\x01"))
}
