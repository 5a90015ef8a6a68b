package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskSaveOpenDelete(t *testing.T) {
	disk, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	key := EmployeeKey(42, "contrat signé.pdf")
	assert.True(t, strings.HasPrefix(key, "employees/42/"))
	assert.True(t, strings.HasSuffix(key, "_contrat signé.pdf"))

	n, err := disk.Save(key, strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)

	rc, err := disk.Open(key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.4", string(body))

	require.NoError(t, disk.Delete(key))
	require.NoError(t, disk.Delete(key))
	_, err = disk.Open(key)
	assert.Error(t, err)
}

func TestDiskRejectsTraversal(t *testing.T) {
	disk, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	_, err = disk.Save("../outside.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = disk.Open("")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"report.pdf":          "report.pdf",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\cv.docx`: "cv.docx",
		"":                    "file",
		"..":                  "file",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeName(in), in)
	}
}
