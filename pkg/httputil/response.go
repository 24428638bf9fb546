// Package httputil provides shared HTTP utilities for consistent response handling.
package httputil

import (
	"net/http"

	"github.com/getmockd/queuestub/pkg/handler"
)

// WriteResponse copies resp onto w: headers first, then status, then body.
// A status that cannot be written as a final response (zero, 1xx, out of
// range) is replaced by WriteInternalError.
func WriteResponse(w http.ResponseWriter, resp handler.Response) {
	if !handler.WritableStatus(resp.StatusCode) {
		WriteInternalError(w)
		return
	}

	dst := w.Header()
	for k, values := range resp.Header {
		for _, v := range values {
			dst.Add(k, v)
		}
	}

	w.WriteHeader(resp.StatusCode)

	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}

// WriteInternalError writes a 500 Internal Server Error response with an empty body.
func WriteInternalError(w http.ResponseWriter) {
	w.WriteHeader(http.StatusInternalServerError)
}
