package utils

import (
	"io"
	"net/http"
)

// HTTPClient is the subset of *http.Client the node RPC layer needs, kept as
// an interface so tests can intercept the wire payloads.
type HTTPClient interface {
	Post(url string, contentType string, body io.Reader) (resp *http.Response, err error)
}
