package utils

import (
	"io"

	gojson "github.com/goccy/go-json" //nolint:depguard
)

var encodeOptions = []gojson.EncodeOptionFunc{gojson.DisableHTMLEscape(), gojson.DisableNormalizeUTF8()}

func MarshalJSON(val any) ([]byte, error) {
	return gojson.MarshalWithOption(val, encodeOptions...)
}

func MarshalJSONIndent(val any, indent string) ([]byte, error) {
	return gojson.MarshalIndentWithOption(val, "", indent, encodeOptions...)
}

func UnmarshalJSON(data []byte, val any) error {
	return gojson.UnmarshalWithOption(data, val)
}

// WriteJSON encodes val followed by a newline. An empty indent writes compact output.
func WriteJSON(w io.Writer, val any, indent string) error {
	var buf []byte
	var err error
	if indent == "" {
		buf, err = MarshalJSON(val)
	} else {
		buf, err = MarshalJSONIndent(val, indent)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(append(buf, '\n'))
	return err
}
