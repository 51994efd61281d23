package httpbody

import (
	"io"
	"net/http"
	"strconv"
)

const (
	ContentTypeJSON        = "application/json"
	ContentTypeProblemJSON = "application/problem+json"
)

// Response is a transport-neutral HTTP response: what a Writer produces and
// a Reader consumes.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// NewResponse drains and closes the body of resp.
func NewResponse(resp *http.Response) (Response, error) {
	out := Response{Status: resp.StatusCode, Header: resp.Header}
	if resp.Body == nil {
		return out, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}
	out.Body = body
	return out, nil
}

// Serve writes r to w.
func (r Response) Serve(w http.ResponseWriter) error {
	h := w.Header()
	for name, values := range r.Header {
		h[name] = append(h[name], values...)
	}
	if len(r.Body) > 0 {
		h.Set("Content-Length", strconv.Itoa(len(r.Body)))
	}
	w.WriteHeader(r.Status)
	if len(r.Body) == 0 {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}
