package httpbody

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/hupe1980/results"
	"github.com/hupe1980/results/internal/jsonx"
	"github.com/hupe1980/results/metadata"
)

// Reader turns HTTP responses into results. It is safe for concurrent use.
type Reader struct {
	opts readOptions
}

// NewReader creates a Reader.
func NewReader(opts ...ReadOption) *Reader {
	o := defaultReadOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Reader{opts: o}
}

// Read converts a response into a result without a value. An empty success
// body reads as OK; a non-empty one may only carry "metadata".
func (rd *Reader) Read(resp Response) (results.Void, error) {
	var r results.Void
	if rd.isFailure(resp) {
		errs, md, err := readProblem(resp)
		if err != nil {
			return results.Void{}, err
		}
		r = results.FailWith[results.Unit](errs, md)
	} else if !isEmpty(resp.Body) {
		md, err := readSuccessMetadata(resp.Body)
		if err != nil {
			return results.Void{}, err
		}
		r = results.OKWithMetadata(md)
	}
	return mergeHeaders(rd.opts, r, resp.Header)
}

// ReadValue converts a response into a result carrying a value of type T.
// Success responses must have a body.
func ReadValue[T any](rd *Reader, resp Response) (results.Result[T], error) {
	if rd.isFailure(resp) {
		errs, md, err := readProblem(resp)
		if err != nil {
			return results.Result[T]{}, err
		}
		return mergeHeaders(rd.opts, results.FailWith[T](errs, md), resp.Header)
	}
	if isEmpty(resp.Body) {
		return results.Result[T]{}, parseErr("", "success responses carrying a value must have a body")
	}

	mode := rd.opts.payload
	if mode == PayloadAuto {
		mode = PayloadBare
		if looksWrapped(resp.Body) {
			mode = PayloadWrapped
		}
	}

	valueRaw, md := []byte(resp.Body), metadata.Object{}
	if mode == PayloadWrapped {
		var err error
		valueRaw, md, err = readWrapped(resp.Body)
		if err != nil {
			return results.Result[T]{}, err
		}
	}

	var v T
	if err := rd.opts.codec.Unmarshal(valueRaw, &v); err != nil {
		return results.Result[T]{}, parseErrWrap("value", "could not be decoded", err)
	}
	return mergeHeaders(rd.opts, results.OkWithMetadata(v, md), resp.Header)
}

// ReadHTTP drains resp and reads it like Read.
func (rd *Reader) ReadHTTP(resp *http.Response) (results.Void, error) {
	r, err := NewResponse(resp)
	if err != nil {
		return results.Void{}, err
	}
	return rd.Read(r)
}

// ReadHTTPValue drains resp and reads it like ReadValue.
func ReadHTTPValue[T any](rd *Reader, resp *http.Response) (results.Result[T], error) {
	r, err := NewResponse(resp)
	if err != nil {
		return results.Result[T]{}, err
	}
	return ReadValue[T](rd, r)
}

func (rd *Reader) isFailure(resp Response) bool {
	if resp.Status < 200 || resp.Status > 299 {
		return true
	}
	return rd.opts.problemAsFailure && isProblemJSON(resp.Header.Get("Content-Type"))
}

func isProblemJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == ContentTypeProblemJSON
}

func isEmpty(body []byte) bool {
	return len(bytes.TrimSpace(body)) == 0
}

func mergeHeaders[T any](o readOptions, r results.Result[T], h http.Header) (results.Result[T], error) {
	if len(o.headers) == 0 || len(h) == 0 {
		return r, nil
	}
	b := metadata.NewObjectBuilder(len(o.headers))
	defer b.Release()
	for _, name := range o.headers {
		values := h.Values(name)
		switch len(values) {
		case 0:
			continue
		case 1:
			_ = b.AddOrReplace(name, metadata.String(values[0], metadata.SerializeInHTTPHeader))
		default:
			items := make([]metadata.Value, len(values))
			for i, s := range values {
				items[i] = metadata.String(s, metadata.SerializeInHTTPHeader)
			}
			_ = b.AddOrReplace(name, metadata.FromArray(metadata.NewArray(items...), metadata.SerializeInHTTPHeader))
		}
	}
	headerMD, err := b.Build()
	if err != nil {
		return r, err
	}
	merged, changed, err := metadata.MergeIfNeeded(r.Metadata(), headerMD, o.mergeStrategy)
	if err != nil {
		return r, parseErrWrap("", "header metadata conflicts with body metadata", err)
	}
	if changed {
		r = r.WithMetadata(merged)
	}
	return r, nil
}

func openObject(r *jsonx.Reader, what string) error {
	tok, err := r.Token()
	if err != nil {
		return parseErrWrap("", "body is not valid JSON", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return parseErr("", what+" must be a JSON object, got "+jsonx.Describe(tok))
	}
	return nil
}

func closeObject(r *jsonx.Reader) error {
	if err := r.Expect('}'); err != nil {
		return parseErrWrap("", "body is not valid JSON", err)
	}
	if err := r.EOF(); err != nil {
		return parseErrWrap("", "body is not valid JSON", err)
	}
	return nil
}

func readSuccessMetadata(body []byte) (metadata.Object, error) {
	r := jsonx.NewReader(body)
	if err := openObject(r, "success body"); err != nil {
		return metadata.Object{}, err
	}
	var md metadata.Object
	for r.More() {
		name, err := r.Name()
		if err != nil {
			return metadata.Object{}, parseErrWrap("", "body is not valid JSON", err)
		}
		if name != "metadata" {
			return metadata.Object{}, parseErr(name, "is not allowed in a success body without a value")
		}
		if md, err = metadata.ReadJSONObject(r, metadata.SerializeInHTTPBody); err != nil {
			return metadata.Object{}, parseErrWrap("metadata", "could not be read", err)
		}
	}
	return md, closeObject(r)
}

// looksWrapped reports whether body is a non-empty object whose properties
// are all "value" or "metadata".
func looksWrapped(body []byte) bool {
	r := jsonx.NewReader(body)
	if err := r.Expect('{'); err != nil {
		return false
	}
	seen := false
	for r.More() {
		name, err := r.Name()
		if err != nil || (name != "value" && name != "metadata") {
			return false
		}
		seen = true
		if err := r.Skip(); err != nil {
			return false
		}
	}
	return seen
}

func readWrapped(body []byte) (json.RawMessage, metadata.Object, error) {
	r := jsonx.NewReader(body)
	if err := openObject(r, "wrapped body"); err != nil {
		return nil, metadata.Object{}, err
	}
	var value json.RawMessage
	var md metadata.Object
	for r.More() {
		name, err := r.Name()
		if err != nil {
			return nil, metadata.Object{}, parseErrWrap("", "body is not valid JSON", err)
		}
		switch name {
		case "value":
			value, err = r.Raw()
		case "metadata":
			md, err = metadata.ReadJSONObject(r, metadata.SerializeInHTTPBody)
		default:
			return nil, metadata.Object{}, parseErr(name, "is not allowed in a wrapped body")
		}
		if err != nil {
			return nil, metadata.Object{}, parseErrWrap(name, "could not be read", err)
		}
	}
	if err := closeObject(r); err != nil {
		return nil, metadata.Object{}, err
	}
	if value == nil {
		return nil, metadata.Object{}, parseErr("value", "is required in a wrapped body")
	}
	return value, md, nil
}

type errorDetail struct {
	target   string
	index    int64
	code     string
	category results.Category
	hasCat   bool
	metadata metadata.Object
}

// readProblem reads problem details. Without an "errors" member a single
// error is built from "detail" (or "title") and the status.
func readProblem(resp Response) (results.Errors, metadata.Object, error) {
	if isEmpty(resp.Body) {
		return results.Errors{}, metadata.Object{}, parseErr("", "failure responses must carry a problem details body")
	}
	r := jsonx.NewReader(resp.Body)
	if err := openObject(r, "problem details"); err != nil {
		return results.Errors{}, metadata.Object{}, err
	}

	var (
		title, detail string
		status        = int64(resp.Status)
		errs          []results.Error
		details       []errorDetail
		md            metadata.Object
	)
	for r.More() {
		name, err := r.Name()
		if err != nil {
			return results.Errors{}, metadata.Object{}, parseErrWrap("", "body is not valid JSON", err)
		}
		switch name {
		case "title":
			title, err = optionalString(r, name)
		case "detail":
			detail, err = optionalString(r, name)
		case "status":
			status, err = readStatus(r, status)
		case "errors":
			errs, err = readErrors(r)
		case "errorDetails":
			details, err = readErrorDetails(r)
		case "metadata":
			md, err = metadata.ReadJSONObject(r, metadata.SerializeInHTTPBody)
		default:
			err = r.Skip()
		}
		if err != nil {
			return results.Errors{}, metadata.Object{}, asParseErr(name, err)
		}
	}
	if err := closeObject(r); err != nil {
		return results.Errors{}, metadata.Object{}, err
	}

	if len(errs) == 0 {
		errs = []results.Error{fallbackError(title, detail, int(status))}
	}
	if err := applyErrorDetails(errs, details); err != nil {
		return results.Errors{}, metadata.Object{}, err
	}
	set, err := results.NewErrors(errs...)
	if err != nil {
		return results.Errors{}, metadata.Object{}, parseErrWrap("errors", "contains an invalid error", err)
	}
	return set, md, nil
}

func asParseErr(field string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return parseErrWrap(field, "could not be read", err)
}

func fallbackError(title, detail string, status int) results.Error {
	msg := detail
	if msg == "" {
		msg = title
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = "request failed"
	}
	return results.NewError(msg).WithCategory(categoryForStatus(status))
}

// categoryForStatus maps an HTTP status onto the category with the same
// code. Unknown 5xx statuses map to InternalError.
func categoryForStatus(status int) results.Category {
	if c := results.Category(status); c != results.CategoryUnclassified && c.IsValid() {
		return c
	}
	if status >= 500 {
		return results.CategoryInternalError
	}
	return results.CategoryUnclassified
}

func optionalString(r *jsonx.Reader, field string) (string, error) {
	tok, err := r.Token()
	if err != nil {
		return "", err
	}
	switch t := tok.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	}
	return "", parseErr(field, "must be a string or null, got "+jsonx.Describe(tok))
}

func readStatus(r *jsonx.Reader, fallback int64) (int64, error) {
	tok, err := r.Token()
	if err != nil {
		return 0, err
	}
	switch t := tok.(type) {
	case nil:
		return fallback, nil
	case json.Number:
		i, _, isInt, err := jsonx.Number(t)
		if err == nil && isInt {
			return i, nil
		}
	}
	return 0, parseErr("status", "must be an integer, got "+jsonx.Describe(tok))
}

// readErrors reads the rich errors array or the {"target": ["message"]}
// validation map.
func readErrors(r *jsonx.Reader) ([]results.Error, error) {
	tok, err := r.Token()
	if err != nil {
		return nil, err
	}
	d, _ := tok.(json.Delim)
	switch {
	case tok == nil:
		return nil, nil
	case d == '[':
		var errs []results.Error
		for i := 0; r.More(); i++ {
			e, err := readError(r, i)
			if err != nil {
				return nil, err
			}
			errs = append(errs, e)
		}
		return errs, r.Expect(']')
	case d == '{':
		return readValidationErrors(r)
	}
	return nil, parseErr("errors", "must be an array or an object, got "+jsonx.Describe(tok))
}

func readError(r *jsonx.Reader, i int) (results.Error, error) {
	field := fmt.Sprintf("errors[%d]", i)
	if err := r.Expect('{'); err != nil {
		return results.Error{}, parseErrWrap(field, "must be a JSON object", err)
	}
	var e results.Error
	for r.More() {
		name, err := r.Name()
		if err != nil {
			return results.Error{}, err
		}
		switch name {
		case "message":
			e.Message, err = optionalString(r, field+".message")
		case "code":
			e.Code, err = optionalString(r, field+".code")
		case "target":
			e.Target, err = optionalString(r, field+".target")
		case "category":
			e.Category, _, err = readCategory(r, field+".category")
		case "metadata":
			e.Metadata, err = metadata.ReadJSONObject(r, metadata.SerializeInHTTPBody)
		default:
			err = r.Skip()
		}
		if err != nil {
			return results.Error{}, err
		}
	}
	if err := r.Expect('}'); err != nil {
		return results.Error{}, err
	}
	if e.Message == "" {
		return results.Error{}, parseErr(field+".message", "is required")
	}
	return e, nil
}

func readCategory(r *jsonx.Reader, field string) (results.Category, bool, error) {
	s, err := optionalString(r, field)
	if err != nil || s == "" {
		return results.CategoryUnclassified, false, err
	}
	c, err := results.ParseCategory(s)
	if err != nil {
		return results.CategoryUnclassified, false, parseErrWrap(field, "is unknown", err)
	}
	return c, true, nil
}

// readValidationErrors reads {"target": "message"} or {"target": ["m1", "m2"]}
// after the opening brace.
func readValidationErrors(r *jsonx.Reader) ([]results.Error, error) {
	var errs []results.Error
	for r.More() {
		target, err := r.Name()
		if err != nil {
			return nil, err
		}
		tok, err := r.Token()
		if err != nil {
			return nil, err
		}
		if s, ok := tok.(string); ok {
			errs = append(errs, results.ValidationError(target, s))
			continue
		}
		if d, ok := tok.(json.Delim); !ok || d != '[' {
			return nil, parseErr("errors."+target, "must be a string or an array of strings")
		}
		for r.More() {
			msg, err := optionalString(r, "errors."+target)
			if err != nil || msg == "" {
				return nil, parseErr("errors."+target, "must contain non-empty strings")
			}
			errs = append(errs, results.ValidationError(target, msg))
		}
		if err := r.Expect(']'); err != nil {
			return nil, err
		}
	}
	return errs, r.Expect('}')
}

func readErrorDetails(r *jsonx.Reader) ([]errorDetail, error) {
	tok, err := r.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, parseErr("errorDetails", "must be an array, got "+jsonx.Describe(tok))
	}
	var details []errorDetail
	for i := 0; r.More(); i++ {
		field := fmt.Sprintf("errorDetails[%d]", i)
		if err := r.Expect('{'); err != nil {
			return nil, parseErrWrap(field, "must be a JSON object", err)
		}
		var d errorDetail
		for r.More() {
			name, err := r.Name()
			if err != nil {
				return nil, err
			}
			switch name {
			case "target":
				d.target, err = optionalString(r, field+".target")
			case "index":
				d.index, err = readStatus(r, 0)
				if err != nil {
					err = parseErr(field+".index", "must be an integer")
				}
			case "code":
				d.code, err = optionalString(r, field+".code")
			case "category":
				d.category, d.hasCat, err = readCategory(r, field+".category")
			case "metadata":
				d.metadata, err = metadata.ReadJSONObject(r, metadata.SerializeInHTTPBody)
			default:
				err = r.Skip()
			}
			if err != nil {
				return nil, err
			}
		}
		if err := r.Expect('}'); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, r.Expect(']')
}

// applyErrorDetails addresses each detail by target and by position among
// the errors sharing that target.
func applyErrorDetails(errs []results.Error, details []errorDetail) error {
	for i, d := range details {
		field := fmt.Sprintf("errorDetails[%d]", i)
		var matches []int
		for j, e := range errs {
			if e.Target == d.target {
				matches = append(matches, j)
			}
		}
		if len(matches) == 0 {
			return parseErr(field+".target", fmt.Sprintf("references unknown target %q", d.target))
		}
		if d.index < 0 || d.index >= int64(len(matches)) {
			return parseErr(field+".index", fmt.Sprintf("%d is out of range for target %q", d.index, d.target))
		}
		e := &errs[matches[d.index]]
		if d.code != "" {
			e.Code = d.code
		}
		if d.hasCat {
			e.Category = d.category
		}
		if !d.metadata.IsEmpty() {
			e.Metadata = d.metadata
		}
	}
	return nil
}
