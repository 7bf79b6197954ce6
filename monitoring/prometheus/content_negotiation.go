package prometheus

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/golang/gddo/httputil"
	"github.com/pkg/errors"
)

const (
	contentTypePlainText = "text/plain"
	contentTypeJSON      = "application/json"
)

// generatedResponse is the body of the healthz endpoint.
type generatedResponse struct {
	// Err is protocol error, if any.
	Err string `json:"error"`

	// Data is response output, if any.
	Data interface{} `json:"data"`
}

// negotiateContentType picks plain text or JSON from the Accept header.
func negotiateContentType(r *http.Request) string {
	contentTypes := []string{
		contentTypePlainText,
		contentTypeJSON,
	}
	return httputil.NegotiateContentType(r, contentTypes, contentTypePlainText)
}

// writeResponse writes the status code and the response in the negotiated
// content type. Plain text expects Data to hold a bytes.Buffer.
func writeResponse(w http.ResponseWriter, r *http.Request, code int, response generatedResponse) error {
	switch negotiateContentType(r) {
	case contentTypeJSON:
		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(code)
		return json.NewEncoder(w).Encode(response)
	default:
		buf, ok := response.Data.(bytes.Buffer)
		if !ok {
			return errors.Errorf("unexpected data: %v", response.Data)
		}
		w.WriteHeader(code)
		if _, err := w.Write(buf.Bytes()); err != nil {
			return errors.Wrap(err, "could not write response body")
		}
	}
	return nil
}
