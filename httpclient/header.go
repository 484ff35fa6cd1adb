package httpclient

import (
	"net/http"
	"sort"
	"strings"

	"github.com/kbukum/httpkit/validation"
)

// Header is a single request or response header.
type Header struct {
	Key   string `json:"key" validate:"required,header_name"`
	Value string `json:"value" validate:"required,header_value"`
}

// NewHeader validates and creates a header. Empty keys or values and
// characters not allowed by RFC 7230 fail immediately.
func NewHeader(key, value string) (Header, error) {
	h := Header{Key: key, Value: value}
	if err := validation.Validate(h); err != nil {
		return Header{}, err
	}
	return h, nil
}

// MustHeader is like NewHeader but panics on invalid input.
func MustHeader(key, value string) Header {
	h, err := NewHeader(key, value)
	if err != nil {
		panic(err)
	}
	return h
}

// flattenHeaders converts multi-value headers to a key-sorted list keeping
// the first value of each key.
func flattenHeaders(h http.Header) []Header {
	result := make([]Header, 0, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result = append(result, Header{Key: k, Value: v[0]})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

func lookupHeader(headers []Header, key string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Key, key) {
			return h.Value
		}
	}
	return ""
}
