package util

import (
	"bytes"
	"encoding/base64"
	"unicode/utf8"
)

// IsText reports whether data can be stored as plain content lines: valid
// UTF-8 with no NUL bytes.
func IsText(data []byte) bool {
	return utf8.Valid(data) && bytes.IndexByte(data, 0) < 0
}

// EncodeBase64Lines encodes data as standard base64 broken into
// newline-terminated lines of at most width characters.
func EncodeBase64Lines(data []byte, width int) []byte {
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(encoded, data)

	var out bytes.Buffer
	out.Grow(len(encoded) + len(encoded)/width + 1)
	for len(encoded) > 0 {
		n := min(width, len(encoded))
		out.Write(encoded[:n])
		out.WriteByte('\n')
		encoded = encoded[n:]
	}
	return out.Bytes()
}

// DecodeBase64Lines reverses EncodeBase64Lines, ignoring line breaks.
func DecodeBase64Lines(text []byte) ([]byte, error) {
	joined := bytes.Join(bytes.Fields(text), nil)
	out := make([]byte, base64.StdEncoding.DecodedLen(len(joined)))
	n, err := base64.StdEncoding.Decode(out, joined)
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	return out[:n], nil
}
