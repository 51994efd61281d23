package httpbody

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/hupe1980/results"
	"github.com/hupe1980/results/internal/jsonx"
	"github.com/hupe1980/results/internal/pool"
	"github.com/hupe1980/results/metadata"
)

// Writer turns results into HTTP responses. It is safe for concurrent use.
type Writer struct {
	opts writeOptions
}

// NewWriter creates a Writer.
func NewWriter(opts ...WriteOption) *Writer {
	o := defaultWriteOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Writer{opts: o}
}

// Write converts a result without a value. Successful results produce 204
// No Content unless body metadata is written, which produces 200 with
// {"metadata": {...}}.
func (w *Writer) Write(r results.Void) (Response, error) {
	if r.IsFailure() {
		errs, _ := r.Errors()
		return w.writeProblem(errs, r.Metadata())
	}

	header, err := headerMetadata(r.Metadata())
	if err != nil {
		return Response{}, err
	}
	bodyMD := r.Metadata().Filter(metadata.SerializeInHTTPBody)
	if w.opts.metadataMode == MetadataErrorsOnly || bodyMD.IsEmpty() {
		return Response{Status: http.StatusNoContent, Header: header}, nil
	}

	body, err := encode(func(jw *jsonx.Writer) error {
		jw.BeginObject()
		jw.Name("metadata")
		if err := metadata.WriteJSONObject(jw, bodyMD); err != nil {
			return err
		}
		jw.EndObject()
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	header.Set("Content-Type", ContentTypeJSON)
	return Response{Status: http.StatusOK, Header: header, Body: body}, nil
}

// WriteValue converts a result carrying a value. Successful results produce
// 200 with the bare value under MetadataErrorsOnly and
// {"value": ..., "metadata": {...}} otherwise.
func WriteValue[T any](w *Writer, r results.Result[T]) (Response, error) {
	if r.IsFailure() {
		errs, _ := r.Errors()
		return w.writeProblem(errs, r.Metadata())
	}

	header, err := headerMetadata(r.Metadata())
	if err != nil {
		return Response{}, err
	}
	v, _ := r.Value()
	raw, err := w.opts.codec.Marshal(v)
	if err != nil {
		return Response{}, fmt.Errorf("%w: value could not be encoded: %w", ErrInvalidResult, err)
	}

	body := raw
	if w.opts.metadataMode == MetadataAlways {
		bodyMD := r.Metadata().Filter(metadata.SerializeInHTTPBody)
		body, err = encode(func(jw *jsonx.Writer) error {
			jw.BeginObject()
			jw.Name("value")
			jw.Raw(raw)
			if !bodyMD.IsEmpty() {
				jw.Name("metadata")
				if err := metadata.WriteJSONObject(jw, bodyMD); err != nil {
					return err
				}
			}
			jw.EndObject()
			return nil
		})
		if err != nil {
			return Response{}, err
		}
	}
	header.Set("Content-Type", ContentTypeJSON)
	return Response{Status: http.StatusOK, Header: header, Body: body}, nil
}

// DefaultProblemDetails derives the status from the leading error category
// and uses the message of a single error as detail.
func DefaultProblemDetails(errs results.Errors, firstWins bool) ProblemDetails {
	status := errs.LeadingCategory(firstWins).HTTPStatus()
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
	}
	if errs.Len() == 1 {
		pd.Detail = errs.First().Message
	}
	return pd
}

func (w *Writer) writeProblem(errs results.Errors, md metadata.Object) (Response, error) {
	for i, e := range errs.All() {
		if !e.Category.IsValid() {
			return Response{}, fmt.Errorf("%w: errors[%d] has an undefined category %d", ErrInvalidResult, i, int(e.Category))
		}
	}
	header, err := headerMetadata(md)
	if err != nil {
		return Response{}, err
	}

	pd := DefaultProblemDetails(errs, w.opts.firstWins)
	if w.opts.problemDetails != nil {
		pd = w.opts.problemDetails(errs, md)
	}
	if pd.Status < 400 || pd.Status > 599 {
		return Response{}, fmt.Errorf("%w: problem details status %d is not an error status", ErrInvalidResult, pd.Status)
	}
	validation := pd.Status == http.StatusBadRequest || pd.Status == http.StatusUnprocessableEntity
	bodyMD := md.Filter(metadata.SerializeInHTTPBody)

	body, err := encode(func(jw *jsonx.Writer) error {
		jw.BeginObject()
		jw.Name("type")
		jw.String(pd.Type)
		jw.Name("title")
		jw.String(pd.Title)
		jw.Name("status")
		jw.Int64(int64(pd.Status))
		if pd.Detail != "" {
			jw.Name("detail")
			jw.String(pd.Detail)
		}
		if pd.Instance != "" {
			jw.Name("instance")
			jw.String(pd.Instance)
		}
		var err error
		if validation && w.opts.validation == ValidationCompatible {
			err = writeCompatibleErrors(jw, errs)
		} else {
			err = writeRichErrors(jw, errs, validation)
		}
		if err != nil {
			return err
		}
		if !bodyMD.IsEmpty() {
			jw.Name("metadata")
			if err := metadata.WriteJSONObject(jw, bodyMD); err != nil {
				return err
			}
		}
		jw.EndObject()
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	header.Set("Content-Type", ContentTypeProblemJSON)
	return Response{Status: pd.Status, Header: header, Body: body}, nil
}

// writeRichErrors writes the errors array. Validation responses always
// carry a target; the empty target denotes the root object.
func writeRichErrors(jw *jsonx.Writer, errs results.Errors, validation bool) error {
	jw.Name("errors")
	jw.BeginArray()
	for _, e := range errs.All() {
		jw.BeginObject()
		jw.Name("message")
		jw.String(e.Message)
		if e.Code != "" {
			jw.Name("code")
			jw.String(e.Code)
		}
		if validation || e.Target != "" {
			jw.Name("target")
			jw.String(e.Target)
		}
		if e.Category != results.CategoryUnclassified {
			jw.Name("category")
			jw.String(e.Category.String())
		}
		if !e.Metadata.IsEmpty() {
			jw.Name("metadata")
			if err := metadata.WriteJSONObject(jw, e.Metadata); err != nil {
				return err
			}
		}
		jw.EndObject()
	}
	jw.EndArray()
	return nil
}

// writeCompatibleErrors groups messages by target. Anything a message list
// cannot express (code, a category other than Validation, metadata) goes to
// errorDetails, addressed by target and position within that target.
func writeCompatibleErrors(jw *jsonx.Writer, errs results.Errors) error {
	var targets []string
	byTarget := make(map[string][]results.Error)
	for _, e := range errs.All() {
		if _, ok := byTarget[e.Target]; !ok {
			targets = append(targets, e.Target)
		}
		byTarget[e.Target] = append(byTarget[e.Target], e)
	}

	jw.Name("errors")
	jw.BeginObject()
	for _, target := range targets {
		jw.Name(target)
		jw.BeginArray()
		for _, e := range byTarget[target] {
			jw.String(e.Message)
		}
		jw.EndArray()
	}
	jw.EndObject()

	wroteDetails := false
	for _, target := range targets {
		for i, e := range byTarget[target] {
			if e.Code == "" && e.Category == results.CategoryValidation && e.Metadata.IsEmpty() {
				continue
			}
			if !wroteDetails {
				jw.Name("errorDetails")
				jw.BeginArray()
				wroteDetails = true
			}
			jw.BeginObject()
			jw.Name("target")
			jw.String(target)
			jw.Name("index")
			jw.Int64(int64(i))
			if e.Code != "" {
				jw.Name("code")
				jw.String(e.Code)
			}
			if e.Category != results.CategoryValidation {
				jw.Name("category")
				jw.String(e.Category.String())
			}
			if !e.Metadata.IsEmpty() {
				jw.Name("metadata")
				if err := metadata.WriteJSONObject(jw, e.Metadata); err != nil {
					return err
				}
			}
			jw.EndObject()
		}
	}
	if wroteDetails {
		jw.EndArray()
	}
	return nil
}

// headerMetadata projects primitive values annotated for headers. Arrays of
// primitives become repeated headers.
func headerMetadata(md metadata.Object) (http.Header, error) {
	h := make(http.Header)
	for key, v := range md.All() {
		if !v.HasAnnotation(metadata.SerializeInHTTPHeader) {
			continue
		}
		if !validHeaderName(key) {
			return nil, fmt.Errorf("%w: metadata key %q is not a valid header name", ErrInvalidResult, key)
		}
		if arr, ok := v.AsArray(); ok {
			for _, item := range arr.All() {
				s, err := headerValue(key, item)
				if err != nil {
					return nil, err
				}
				h.Add(key, s)
			}
			continue
		}
		s, err := headerValue(key, v)
		if err != nil {
			return nil, err
		}
		h.Add(key, s)
	}
	return h, nil
}

func headerValue(key string, v metadata.Value) (string, error) {
	switch v.Kind() {
	case metadata.KindString:
		s, _ := v.AsString()
		return s, nil
	case metadata.KindInt64:
		i, _ := v.AsInt64()
		return strconv.FormatInt(i, 10), nil
	case metadata.KindDouble:
		f, _ := v.AsDouble()
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case metadata.KindBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b), nil
	}
	return "", fmt.Errorf("%w: metadata %q of kind %s cannot be written as a header", ErrInvalidResult, key, v.Kind())
}

// validHeaderName reports whether name is an RFC 9110 token.
func validHeaderName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c < 0x80 && strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0:
		default:
			return false
		}
	}
	return true
}

func encode(write func(jw *jsonx.Writer) error) ([]byte, error) {
	buf := pool.GetEnvelopeBuffer()
	defer pool.PutEnvelopeBuffer(buf)

	if err := write(jsonx.NewWriter(buf)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResult, err)
	}
	return buf.Clone(), nil
}
