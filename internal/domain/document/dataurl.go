// Package document handles base64 data URLs used for attachments and
// generated files.
package document

import (
	"encoding/base64"
	"strings"

	"github.com/turtacn/AeroOps/pkg/errors"
)

const (
	dataPrefix   = "data:"
	base64Marker = ";base64,"

	// MimePDF is the content type of generated inspection reports.
	MimePDF = "application/pdf"
	// MimeOctet is used when a data URL omits its media type.
	MimeOctet = "application/octet-stream"
)

// NormalizeDataURL prefixes raw base64 with "data:<mime>;base64," unless it
// is already a data URL.
func NormalizeDataURL(raw, mime string) string {
	if strings.HasPrefix(raw, dataPrefix) {
		return raw
	}
	if mime == "" {
		mime = MimeOctet
	}
	return dataPrefix + mime + base64Marker + raw
}

// Decode splits a base64 data URL into its media type and payload.
func Decode(dataURL string) (string, []byte, error) {
	if !strings.HasPrefix(dataURL, dataPrefix) {
		return "", nil, errors.New(errors.ErrCodeDataURLInvalid, "missing data: prefix")
	}
	idx := strings.Index(dataURL, base64Marker)
	if idx < 0 {
		return "", nil, errors.New(errors.ErrCodeDataURLInvalid, "only base64 data URLs are supported")
	}
	mime := dataURL[len(dataPrefix):idx]
	if mime == "" {
		mime = MimeOctet
	}
	body := dataURL[idx+len(base64Marker):]
	payload, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		payload, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(body, "="))
		if err != nil {
			return "", nil, errors.Wrap(err, errors.ErrCodeDataURLInvalid, "decode base64 payload")
		}
	}
	return mime, payload, nil
}

// Encode renders payload as a data URL.
func Encode(mime string, payload []byte) string {
	return NormalizeDataURL(base64.StdEncoding.EncodeToString(payload), mime)
}

// Extension maps common attachment media types to a file extension.
func Extension(mime string) string {
	switch strings.ToLower(mime) {
	case MimePDF:
		return ".pdf"
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "text/plain":
		return ".txt"
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return ".xlsx"
	default:
		return ".bin"
	}
}

//Personal.AI order the ending
