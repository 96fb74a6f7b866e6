package extract

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// DecodeDataURI decodes an RFC 2397 data URI into its media type and payload,
// as sent by browser FileReader.readAsDataURL.
func DecodeDataURI(uri string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return "", nil, &Error{Reason: "Invalid document upload.", Err: errors.New("missing data: scheme")}
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, &Error{Reason: "Invalid document upload.", Err: errors.New("missing data uri payload")}
	}

	params := strings.Split(meta, ";")
	mimeType = strings.ToLower(strings.TrimSpace(params[0]))
	if mimeType == "" {
		mimeType = "text/plain"
	}
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return "", nil, &Error{Reason: "Invalid document upload.", Err: errors.Wrap(err, "decode base64 payload")}
		}
		return mimeType, data, nil
	}
	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, &Error{Reason: "Invalid document upload.", Err: errors.Wrap(err, "unescape payload")}
	}
	return mimeType, []byte(unescaped), nil
}
