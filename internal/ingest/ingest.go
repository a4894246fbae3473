package ingest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/saeed-karout/Today-s-recipe-Ai/internal/errors"
)

// IncomingRequest is the raw inbound payload handed to the ingestor. It is
// created once per request and discarded when the pipeline completes.
type IncomingRequest struct {
	Method string
	Header textproto.MIMEHeader
	Body   []byte
	// IsBase64 marks bodies delivered base64-encoded by the hosting platform
	// (serverless gateways transport binary multipart bodies this way).
	IsBase64 bool
}

// ImageUpload is the single optional image attached to a request.
type ImageUpload struct {
	Bytes    []byte
	MimeType string
}

// ParsedForm is the normalized view of a request regardless of how it was
// encoded on the wire.
//
// Invariant: exactly one of Image/ImageURL or a non-empty Ingredients list is
// set when Parse returns without error.
type ParsedForm struct {
	Image       *ImageUpload
	ImageURL    string
	Language    string
	CuisineType string
	Ingredients []string
}

// ImageMode reports whether the request carries an image (inline or by URL).
func (f *ParsedForm) ImageMode() bool {
	return f.Image != nil || f.ImageURL != ""
}

const (
	defaultLanguage = "en"
	defaultCuisine  = "Middle Eastern"
)

// jsonBody is the shape of an application/json request. The image field
// accepts either a data URL or a remote URL.
type jsonBody struct {
	Image       string   `json:"image"`
	Ingredients []string `json:"ingredients"`
	Language    string   `json:"language"`
	CuisineType string   `json:"cuisineType"`
}

// Parse decodes an IncomingRequest into a ParsedForm, selecting the decoding
// strategy from the declared content type.
func Parse(req *IncomingRequest) (*ParsedForm, error) {
	contentType := req.Header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, errors.NewInvalidRequestError("missing or malformed Content-Type header", "BAD_CONTENT_TYPE", err)
	}

	body := req.Body
	if req.IsBase64 {
		decoded, err := base64.StdEncoding.DecodeString(string(body))
		if err != nil {
			return nil, errors.NewInvalidRequestError("request body is not valid base64", "BAD_BODY_ENCODING", err)
		}
		body = decoded
	}

	var form *ParsedForm
	switch {
	case mediaType == "multipart/form-data":
		form, err = parseMultipart(body, params["boundary"])
	case mediaType == "application/json":
		form, err = parseJSON(body)
	default:
		return nil, errors.NewInvalidRequestError("unsupported content type: "+mediaType, "BAD_CONTENT_TYPE", nil)
	}
	if err != nil {
		return nil, err
	}

	form.applyDefaults()

	if err := form.checkInvariant(); err != nil {
		return nil, err
	}
	return form, nil
}

// parseMultipart consumes the body as streaming field/file events. Only the
// first file under the "image" field is buffered; later files under the same
// name are drained and discarded so a hostile request cannot balloon memory.
func parseMultipart(body []byte, boundary string) (*ParsedForm, error) {
	if boundary == "" {
		return nil, errors.NewInvalidRequestError("multipart body without boundary", "BAD_MULTIPART", nil)
	}

	form := &ParsedForm{}
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInvalidRequestError("malformed multipart body", "BAD_MULTIPART", err)
		}

		name := part.FormName()
		if part.FileName() != "" {
			if name != "image" || form.Image != nil {
				io.Copy(io.Discard, part)
				part.Close()
				continue
			}
			data, err := io.ReadAll(part)
			part.Close()
			if err != nil {
				return nil, errors.NewInvalidRequestError("failed to read uploaded file", "BAD_MULTIPART", err)
			}
			form.Image = &ImageUpload{
				Bytes:    data,
				MimeType: part.Header.Get("Content-Type"),
			}
			continue
		}

		value, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, errors.NewInvalidRequestError("failed to read form field", "BAD_MULTIPART", err)
		}

		// First value wins for repeated scalar fields.
		switch name {
		case "language":
			if form.Language == "" {
				form.Language = string(value)
			}
		case "cuisineType":
			if form.CuisineType == "" {
				form.CuisineType = string(value)
			}
		case "ingredients":
			if v := strings.TrimSpace(string(value)); v != "" {
				form.Ingredients = append(form.Ingredients, v)
			}
		}
	}

	return form, nil
}

func parseJSON(body []byte) (*ParsedForm, error) {
	var req jsonBody
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, errors.NewInvalidRequestError("malformed JSON body", "BAD_JSON", err)
	}

	form := &ParsedForm{
		Language:    req.Language,
		CuisineType: req.CuisineType,
	}
	for _, ing := range req.Ingredients {
		if v := strings.TrimSpace(ing); v != "" {
			form.Ingredients = append(form.Ingredients, v)
		}
	}

	if req.Image != "" {
		if strings.HasPrefix(req.Image, "data:") {
			upload, err := decodeDataURL(req.Image)
			if err != nil {
				return nil, err
			}
			form.Image = upload
		} else {
			form.ImageURL = req.Image
		}
	}

	return form, nil
}

// decodeDataURL unpacks a "data:<mime>;base64,<payload>" image.
func decodeDataURL(dataURL string) (*ImageUpload, error) {
	meta, payload, found := strings.Cut(dataURL, ",")
	if !found {
		return nil, errors.NewInvalidRequestError("malformed data URL", "BAD_DATA_URL", nil)
	}
	meta = strings.TrimPrefix(meta, "data:")
	mimeType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return nil, errors.NewInvalidRequestError("data URL must be base64-encoded", "BAD_DATA_URL", nil)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.NewInvalidRequestError("data URL payload is not valid base64", "BAD_DATA_URL", err)
	}

	return &ImageUpload{Bytes: data, MimeType: mimeType}, nil
}

func (f *ParsedForm) applyDefaults() {
	// The prompt only distinguishes Arabic from everything else.
	if f.Language != "ar" {
		f.Language = defaultLanguage
	}
	if strings.TrimSpace(f.CuisineType) == "" {
		f.CuisineType = defaultCuisine
	}
}

func (f *ParsedForm) checkInvariant() error {
	hasImage := f.ImageMode()
	hasIngredients := len(f.Ingredients) > 0

	switch {
	case !hasImage && !hasIngredients:
		return errors.NewInvalidRequestError("No image uploaded", "NO_INPUT", nil)
	case hasImage && hasIngredients:
		return errors.NewInvalidRequestError("send either an image or an ingredients list, not both", "AMBIGUOUS_INPUT", nil)
	}
	return nil
}
