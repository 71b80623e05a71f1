package asset

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangle = `<svg viewBox="0 0 40 20"><polygon points="0,20 20,0 40,20" fill="red"/></svg>`

func uploadRequest(t *testing.T, name, contentType, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/assets/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAndServe(t *testing.T) {
	h := NewHandler(t.TempDir())

	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "tri.svg", "image/svg+xml", triangle))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp UploadResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 40.0, resp.Width)
	assert.Equal(t, 20.0, resp.Height)
	assert.Equal(t, 1, resp.Shapes)
	assert.Equal(t, "tri.svg", resp.Name)

	path, err := h.Path(resp.ID)
	require.NoError(t, err)
	assert.FileExists(t, path)

	rec = httptest.NewRecorder()
	h.Serve().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, resp.URL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<polygon")
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")

	require.NoError(t, h.Delete(resp.ID))
	_, err = h.Path(resp.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadRejects(t *testing.T) {
	h := NewHandler(t.TempDir())

	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "x.png", "image/png", "not an svg"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "x.svg", "image/svg+xml", "<html></html>"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid svg")
}

func TestPathValidatesID(t *testing.T) {
	h := NewHandler(t.TempDir())
	_, err := h.Path("../etc/passwd")
	assert.Error(t, err)
}
