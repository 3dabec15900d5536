package caption

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// DataURI is a decoded "data:<mimetype>;base64,<data>" payload.
type DataURI struct {
	MimeType string
	Data     []byte
}

var ErrInvalidDataURI = errors.New("photo data must be a base64-encoded data URI with a MIME type")

// ParseDataURI decodes a self-describing encoded image payload.
// Expected format: data:image/jpeg;base64,<encoded_data>
func ParseDataURI(uri string) (*DataURI, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, ErrInvalidDataURI
	}

	rest := strings.TrimPrefix(uri, "data:")
	meta, encoded, found := strings.Cut(rest, ",")
	if !found {
		return nil, ErrInvalidDataURI
	}

	if !strings.HasSuffix(meta, ";base64") {
		return nil, ErrInvalidDataURI
	}
	mimeType := strings.TrimSuffix(meta, ";base64")
	if mimeType == "" {
		return nil, ErrInvalidDataURI
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}

	return &DataURI{MimeType: mimeType, Data: data}, nil
}

// EncodeDataURI builds a data URI from raw bytes and a MIME type.
func EncodeDataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
