package resource

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// encodeCharset transcodes a UTF-8 body into charset. Characters the target
// charset cannot represent are replaced.
func encodeCharset(body []byte, charset string) ([]byte, error) {
	if isUTF8(charset) {
		return body, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, &EncodingError{Charset: charset, Err: err}
	}
	out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes(body)
	if err != nil {
		return nil, &EncodingError{Charset: charset, Err: err}
	}
	return out, nil
}

// decodeCharset transcodes raw input in charset into UTF-8.
func decodeCharset(raw []byte, charset string) ([]byte, error) {
	if isUTF8(charset) {
		return raw, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, &EncodingError{Charset: charset, Err: err}
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, &EncodingError{Charset: charset, Err: err}
	}
	return out, nil
}

func isUTF8(charset string) bool {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}
