package pg

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/mr-tron/base58"
)

// EncodeType selects the textual encoding for byte values stored in text
// columns. The short type is kept as a prefix so stored values remain
// self-describing.
type EncodeType string

const (
	Base64            EncodeType = "b64"
	Base58            EncodeType = "b58"
	DefaultEncodeType            = Base64
)

// Encode encodes the value into the specified format, prefixed with the short
// encoding type. Receipt blobs use the default Base64; fingerprints use Base58
// for log friendliness.
func Encode(value []byte, encodeType ...EncodeType) string {
	encType := DefaultEncodeType
	if len(encodeType) > 0 {
		encType = encodeType[0]
	}

	var encodedValue string
	switch encType {
	case Base58:
		encodedValue = base58.Encode(value)
	case Base64:
		fallthrough
	default:
		encodedValue = base64.StdEncoding.EncodeToString(value)
	}

	return string(encType) + ":" + encodedValue
}

// Decode decodes a value produced by Encode, determining the encoding type
// from its prefix.
func Decode(value string) ([]byte, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return nil, errors.New("invalid encoded value format")
	}

	encType, encodedValue := EncodeType(parts[0]), parts[1]

	switch encType {
	case Base58:
		return base58.Decode(encodedValue)
	case Base64:
		return base64.StdEncoding.DecodeString(encodedValue)
	default:
		return nil, errors.New("unsupported encoding type")
	}
}
