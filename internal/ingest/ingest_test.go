package ingest

import (
	"bytes"
	"encoding/base64"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/saeed-karout/Today-s-recipe-Ai/internal/errors"
)

func buildMultipart(t *testing.T, fields map[string][]string, files map[string][][]byte) (body []byte, contentType string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for name, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(name, v))
		}
	}
	for name, blobs := range files {
		for _, blob := range blobs {
			fw, err := w.CreateFormFile(name, "photo.jpg")
			require.NoError(t, err)
			_, err = fw.Write(blob)
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	return buf.Bytes(), w.FormDataContentType()
}

func newRequest(body []byte, contentType string) *IncomingRequest {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)
	return &IncomingRequest{Method: "POST", Header: header, Body: body}
}

func TestParse_MultipartImageMode(t *testing.T) {
	img := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	body, ct := buildMultipart(t,
		map[string][]string{"language": {"ar"}, "cuisineType": {"Levantine"}},
		map[string][][]byte{"image": {img}},
	)

	form, err := Parse(newRequest(body, ct))
	require.NoError(t, err)
	require.NotNil(t, form.Image)
	assert.Equal(t, img, form.Image.Bytes)
	assert.Equal(t, "ar", form.Language)
	assert.Equal(t, "Levantine", form.CuisineType)
	assert.True(t, form.ImageMode())
}

func TestParse_MultipartFirstImageWins(t *testing.T) {
	first := []byte("first-image")
	second := []byte("second-image-should-be-discarded")
	body, ct := buildMultipart(t, nil, map[string][][]byte{"image": {first, second}})

	form, err := Parse(newRequest(body, ct))
	require.NoError(t, err)
	require.NotNil(t, form.Image)
	assert.Equal(t, first, form.Image.Bytes)
}

func TestParse_MultipartFirstScalarWins(t *testing.T) {
	body, ct := buildMultipart(t,
		map[string][]string{"language": {"ar", "en"}, "cuisineType": {"Gulf", "Egyptian"}},
		map[string][][]byte{"image": {[]byte("x")}},
	)

	form, err := Parse(newRequest(body, ct))
	require.NoError(t, err)
	assert.Equal(t, "ar", form.Language)
	assert.Equal(t, "Gulf", form.CuisineType)
}

func TestParse_MultipartNoInput(t *testing.T) {
	body, ct := buildMultipart(t, map[string][]string{"language": {"en"}}, nil)

	_, err := Parse(newRequest(body, ct))
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeInvalidRequest, appErr.Type)
	assert.Equal(t, "No image uploaded", appErr.Message)
}

func TestParse_Base64TransportedMultipart(t *testing.T) {
	body, ct := buildMultipart(t, nil, map[string][][]byte{"image": {[]byte{0x89, 0x50, 0x4E, 0x47}}})
	encoded := []byte(base64.StdEncoding.EncodeToString(body))

	req := newRequest(encoded, ct)
	req.IsBase64 = true

	form, err := Parse(req)
	require.NoError(t, err)
	require.NotNil(t, form.Image)
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, form.Image.Bytes)
}

func TestParse_JSONIngredientMode(t *testing.T) {
	body := []byte(`{"ingredients":["chicken","rice"],"cuisineType":"Middle Eastern","language":"en"}`)

	form, err := Parse(newRequest(body, "application/json"))
	require.NoError(t, err)
	assert.Nil(t, form.Image)
	assert.Equal(t, []string{"chicken", "rice"}, form.Ingredients)
	assert.Equal(t, "Middle Eastern", form.CuisineType)
	assert.False(t, form.ImageMode())
}

func TestParse_JSONDataURLImage(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("raw-image-bytes"))
	body := []byte(`{"image":"data:image/png;base64,` + payload + `","language":"ar"}`)

	form, err := Parse(newRequest(body, "application/json"))
	require.NoError(t, err)
	require.NotNil(t, form.Image)
	assert.Equal(t, "image/png", form.Image.MimeType)
	assert.Equal(t, []byte("raw-image-bytes"), form.Image.Bytes)
}

func TestParse_JSONRemoteURLImage(t *testing.T) {
	body := []byte(`{"image":"https://cdn.example.com/pantry.jpg"}`)

	form, err := Parse(newRequest(body, "application/json"))
	require.NoError(t, err)
	assert.Nil(t, form.Image)
	assert.Equal(t, "https://cdn.example.com/pantry.jpg", form.ImageURL)
	assert.True(t, form.ImageMode())
}

func TestParse_JSONEmptyIngredientsRejected(t *testing.T) {
	body := []byte(`{"ingredients":["", "  "]}`)

	_, err := Parse(newRequest(body, "application/json"))
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeInvalidRequest, appErr.Type)
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse(newRequest([]byte(`{"ingredients": [`), "application/json"))
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, "BAD_JSON", appErr.ErrorCode)
}

func TestParse_UnsupportedContentType(t *testing.T) {
	_, err := Parse(newRequest([]byte("hello"), "text/plain"))
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, "BAD_CONTENT_TYPE", appErr.ErrorCode)
}

func TestParse_LanguageNormalization(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"arabic kept", "ar", "ar"},
		{"english kept", "en", "en"},
		{"unknown falls back to english", "fr", "en"},
		{"empty falls back to english", "", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := []byte(`{"ingredients":["chicken"],"language":"` + tt.in + `"}`)
			form, err := Parse(newRequest(body, "application/json"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, form.Language)
		})
	}
}
