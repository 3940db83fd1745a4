package uploads

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// fileHeader builds a real multipart.FileHeader by parsing a request body
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("paymentProof", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["paymentProof"][0]
}

func TestValidate(t *testing.T) {
	ext, err := Validate(fileHeader(t, "proof.png", pngHeader), 1024)
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)

	_, err = Validate(fileHeader(t, "proof.png", []byte("%PDF-1.4 not an image")), 1024)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Validate(fileHeader(t, "big.png", append(pngHeader, make([]byte, 2048)...)), 1024)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = Validate(nil, 1024)
	assert.ErrorIs(t, err, ErrFileMissing)
}

func TestDiskStorageSave(t *testing.T) {
	root := t.TempDir()
	store := NewDiskStorage(root, "http://localhost:3333/", 1<<20)

	url, err := store.Save(context.Background(), fileHeader(t, "proof.png", pngHeader), FolderPaymentProofs)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:3333/uploads/payment-proofs/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	written, err := os.ReadFile(filepath.Join(root, FolderPaymentProofs, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, written)
}

func TestDiskStorageDelete(t *testing.T) {
	root := t.TempDir()
	store := NewDiskStorage(root, "http://localhost:3333", 1<<20)
	ctx := context.Background()

	url, err := store.Save(ctx, fileHeader(t, "proof.png", pngHeader), FolderPaymentProofs)
	require.NoError(t, err)
	path := filepath.Join(root, FolderPaymentProofs, filepath.Base(url))
	require.FileExists(t, path)

	require.NoError(t, store.Delete(ctx, url))
	assert.NoFileExists(t, path)

	// already gone, foreign and traversal URLs are ignored
	assert.NoError(t, store.Delete(ctx, url))
	assert.NoError(t, store.Delete(ctx, "https://elsewhere.test/uploads/x.png"))
	assert.NoError(t, store.Delete(ctx, "http://localhost:3333/uploads/../secret"))
}

func TestCloudinaryPublicID(t *testing.T) {
	tests := []struct{ url, want string }{
		{"https://res.cloudinary.com/demo/image/upload/v1712/fieldbook/payment-proofs/abc.png", "fieldbook/payment-proofs/abc"},
		{"https://res.cloudinary.com/demo/image/upload/fieldbook/field-images/def.jpg", "fieldbook/field-images/def"},
		{"https://files.test/other.png", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cloudinaryPublicID(tt.url), tt.url)
	}
}
