package cloudevents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/results"
	"github.com/hupe1980/results/internal/jsonx"
	"github.com/hupe1980/results/metadata"
)

// Reader decodes CloudEvents JSON envelopes into results.
// A Reader is immutable and safe for concurrent use.
type Reader struct {
	opts readOptions
}

// NewReader returns a Reader configured by opts.
func NewReader(opts ...ReadOption) *Reader {
	o := defaultReadOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Reader{opts: o}
}

// Read decodes an envelope into a result without a value. Extension
// attributes are merged into the result metadata through the configured
// parsing service.
func (rd *Reader) Read(data []byte) (results.Void, error) {
	start := time.Now()
	env, err := rd.ReadEnvelope(data)
	if err != nil {
		rd.observe(env.Type, len(data), false, start, err)
		return results.Void{}, err
	}
	r, err := mergeExtensions(rd.opts, env.Result, env.Extensions)
	rd.observe(env.Type, len(data), r.IsFailure(), start, err)
	return r, err
}

// ReadEnvelope decodes an envelope into a result without a value and keeps
// the envelope attributes. Extension attributes are not merged into the
// result metadata.
func (rd *Reader) ReadEnvelope(data []byte) (Envelope[results.Unit], error) {
	raw, err := parseEnvelope(data)
	if err != nil {
		return Envelope[results.Unit]{}, err
	}
	failure, err := rd.classify(raw)
	if err != nil {
		return raw.envelope(results.Void{}), err
	}
	r, err := readVoidPayload(raw, failure)
	return raw.envelope(r), err
}

// ReadValue decodes an envelope into a result carrying a value of type T.
func ReadValue[T any](rd *Reader, data []byte) (results.Result[T], error) {
	start := time.Now()
	env, err := ReadValueEnvelope[T](rd, data)
	if err != nil {
		rd.observe(env.Type, len(data), false, start, err)
		return results.Result[T]{}, err
	}
	r, err := mergeExtensions(rd.opts, env.Result, env.Extensions)
	rd.observe(env.Type, len(data), r.IsFailure(), start, err)
	return r, err
}

// ReadValueEnvelope is ReadEnvelope for results carrying a value of type T.
func ReadValueEnvelope[T any](rd *Reader, data []byte) (Envelope[T], error) {
	raw, err := parseEnvelope(data)
	if err != nil {
		return Envelope[T]{}, err
	}
	failure, err := rd.classify(raw)
	if err != nil {
		return envelopeOf(raw, results.Result[T]{}), err
	}
	r, err := readValuePayload[T](rd.opts, raw, failure)
	return envelopeOf(raw, r), err
}

func (rd *Reader) observe(eventType string, size int, failure bool, start time.Time, err error) {
	rd.opts.metrics.RecordRead(size, failure, time.Since(start), err)
	rd.opts.logger.LogEnvelopeRead(context.Background(), eventType, size, failure, err)
}

// classify decides the outcome from lroutcome, falling back to the
// configured failure type predicate.
func (rd *Reader) classify(raw rawEnvelope) (bool, error) {
	if v, ok := raw.extensions.Get(OutcomeAttribute); ok {
		s, _ := v.AsString()
		switch {
		case strings.EqualFold(s, OutcomeSuccess):
			return false, nil
		case strings.EqualFold(s, OutcomeFailure):
			return true, nil
		}
		return false, parseErr(OutcomeAttribute, "must be either 'success' or 'failure'")
	}
	if rd.opts.isFailureType != nil {
		return rd.opts.isFailureType(raw.eventType), nil
	}
	return false, parseErr(OutcomeAttribute, "is missing and no failure type predicate is configured, so the outcome could not be classified")
}

func mergeExtensions[T any](o readOptions, r results.Result[T], ext metadata.Object) (results.Result[T], error) {
	if o.parsing == nil || ext.IsEmpty() {
		return r, nil
	}
	extMD, err := o.parsing.ReadExtensionMetadata(ext.Without(OutcomeAttribute))
	if err != nil {
		return r, err
	}
	extMD, dataMD := unionAnnotations(extMD, r.Metadata())
	merged, changed, err := metadata.MergeIfNeeded(extMD, dataMD, o.mergeStrategy)
	if err != nil {
		return r, parseErrWrap("", "extension attributes conflict with data metadata", err)
	}
	if changed || !merged.Equal(r.Metadata()) {
		r = r.WithMetadata(merged)
	}
	return r, nil
}

// unionAnnotations gives a key present on both sides with the same payload
// the union of both annotations, so the value keeps every surface it was
// written to.
func unionAnnotations(ext, data metadata.Object) (metadata.Object, metadata.Object) {
	if ext.IsEmpty() || data.IsEmpty() {
		return ext, data
	}
	for key, dv := range data.All() {
		ev, ok := ext.Get(key)
		if !ok || ev.Annotation() == dv.Annotation() || !ev.EqualIgnoringAnnotation(dv) {
			continue
		}
		ann := ev.Annotation() | dv.Annotation()
		ext = ext.With(key, ev.WithAnnotation(ann))
		data = data.With(key, dv.WithAnnotation(ann))
	}
	return ext, data
}

type rawEnvelope struct {
	specVersion string
	eventType   string
	source      string
	id          string
	subject     string
	time        time.Time
	contentType string
	dataSchema  string
	extensions  metadata.Object
	// data holds the raw data value; nil when data is absent or null.
	data json.RawMessage
}

func (raw rawEnvelope) envelope(r results.Void) Envelope[results.Unit] {
	return envelopeOf(raw, r)
}

func envelopeOf[T any](raw rawEnvelope, r results.Result[T]) Envelope[T] {
	return Envelope[T]{
		Type:            raw.eventType,
		Source:          raw.source,
		ID:              raw.id,
		Subject:         raw.subject,
		Time:            raw.time,
		DataContentType: raw.contentType,
		DataSchema:      raw.dataSchema,
		Extensions:      raw.extensions,
		Result:          r,
	}
}

// syntaxErr attributes a token-level error to attr unless it already is a
// ParseError.
func syntaxErr(attr string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	if attr == "" {
		return parseErrWrap("", "envelope is not valid JSON", err)
	}
	return parseErrWrap(attr, "is not valid JSON", err)
}

func isNullRaw(raw json.RawMessage) bool {
	return string(raw) == "null"
}

// parseEnvelope reads the envelope in one forward pass. data is captured
// verbatim for the payload pass.
func parseEnvelope(data []byte) (rawEnvelope, error) {
	var env rawEnvelope

	r := jsonx.NewReader(data)
	tok, err := r.Token()
	if err != nil {
		return env, syntaxErr("", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return env, parseErr("", "envelope must be a JSON object, got "+jsonx.Describe(tok))
	}

	ext := metadata.NewObjectBuilder(0)
	defer ext.Release()

	for r.More() {
		name, err := r.Name()
		if err != nil {
			return env, syntaxErr("", err)
		}
		switch name {
		case AttrSpecVersion:
			env.specVersion, err = requiredString(r, name)
		case AttrType:
			env.eventType, err = requiredString(r, name)
		case AttrSource:
			env.source, err = requiredString(r, name)
		case AttrID:
			env.id, err = requiredString(r, name)
		case AttrSubject:
			env.subject, err = optionalString(r, name)
		case AttrDataContentType:
			env.contentType, err = optionalString(r, name)
		case AttrDataSchema:
			env.dataSchema, err = optionalString(r, name)
		case AttrTime:
			env.time, err = readTime(r)
		case AttrDataBase64:
			return env, parseErrWrap(AttrDataBase64, "is not supported", ErrNotSupported)
		case AttrData:
			var raw json.RawMessage
			raw, err = r.Raw()
			if err == nil && !isNullRaw(raw) {
				env.data = raw
			}
		default:
			var v metadata.Value
			v, err = metadata.ReadJSONValue(r, metadata.SerializeInCloudEventData)
			if err == nil {
				if v.Kind().IsPrimitive() {
					v = v.WithAnnotation(metadata.SerializeAsCloudEventExtension)
				}
				err = ext.AddOrReplace(name, v)
			}
		}
		if err != nil {
			return env, syntaxErr(name, err)
		}
	}
	if err := r.Expect('}'); err != nil {
		return env, syntaxErr("", err)
	}
	if err := r.EOF(); err != nil {
		return env, syntaxErr("", err)
	}

	env.extensions, err = ext.Build()
	if err != nil {
		return env, err
	}
	return env, env.validate()
}

func (env rawEnvelope) validate() error {
	switch {
	case isBlank(env.specVersion):
		return parseErr(AttrSpecVersion, "is required")
	case env.specVersion != SpecVersion:
		return parseErr(AttrSpecVersion, "must be '"+SpecVersion+"'")
	case isBlank(env.eventType):
		return parseErr(AttrType, "is required")
	case isBlank(env.source):
		return parseErr(AttrSource, "is required")
	case isBlank(env.id):
		return parseErr(AttrID, "is required")
	case !validURIReference(env.source):
		return parseErr(AttrSource, "must be a valid URI-reference")
	case !isBlank(env.dataSchema) && !validAbsoluteURI(env.dataSchema):
		return parseErr(AttrDataSchema, "must be an absolute URI")
	case !isBlank(env.contentType) && !validContentType(env.contentType):
		return parseErr(AttrDataContentType, "must be 'application/json' or a media type ending with '+json'")
	}
	return nil
}

func requiredString(r *jsonx.Reader, name string) (string, error) {
	tok, err := r.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", parseErr(name, "must be a string, got "+jsonx.Describe(tok))
	}
	return s, nil
}

func optionalString(r *jsonx.Reader, name string) (string, error) {
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
	return "", parseErr(name, "must be a string or null, got "+jsonx.Describe(tok))
}

func readTime(r *jsonx.Reader) (time.Time, error) {
	s, err := optionalString(r, AttrTime)
	if err != nil || isBlank(s) {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, parseErrWrap(AttrTime, "must be a valid RFC 3339 timestamp", err)
	}
	return t, nil
}

func readVoidPayload(raw rawEnvelope, failure bool) (results.Void, error) {
	if raw.data == nil {
		if failure {
			return results.Void{}, parseErr(AttrData, "must contain a failure payload")
		}
		return results.OK(), nil
	}
	if failure {
		errs, md, err := readFailurePayload(raw.data)
		if err != nil {
			return results.Void{}, err
		}
		return results.FailWith[results.Unit](errs, md), nil
	}
	md, err := readSuccessMetadata(raw.data)
	if err != nil {
		return results.Void{}, err
	}
	return results.OKWithMetadata(md), nil
}

func readValuePayload[T any](o readOptions, raw rawEnvelope, failure bool) (results.Result[T], error) {
	if raw.data == nil {
		return results.Result[T]{}, parseErr(AttrData, "is required for results carrying a value")
	}
	if failure {
		errs, md, err := readFailurePayload(raw.data)
		if err != nil {
			return results.Result[T]{}, err
		}
		return results.FailWith[T](errs, md), nil
	}

	mode := o.payload
	if mode == PayloadAuto {
		mode = PayloadBare
		if looksWrapped(raw.data) {
			mode = PayloadWrapped
		}
	}

	valueRaw, md := []byte(raw.data), metadata.Object{}
	if mode == PayloadWrapped {
		var err error
		valueRaw, md, err = readWrapped(raw.data)
		if err != nil {
			return results.Result[T]{}, err
		}
	}

	var v T
	if err := o.codec.Unmarshal(valueRaw, &v); err != nil {
		return results.Result[T]{}, parseErrWrap(AttrData, "value could not be decoded", err)
	}
	return results.OkWithMetadata(v, md), nil
}

// looksWrapped reports whether data is a non-empty object whose properties
// are all "value" or "metadata".
func looksWrapped(data []byte) bool {
	r := jsonx.NewReader(data)
	if err := r.Expect('{'); err != nil {
		return false
	}
	seen := false
	for r.More() {
		name, err := r.Name()
		if err != nil {
			return false
		}
		if name != "value" && name != "metadata" {
			return false
		}
		seen = true
		if err := r.Skip(); err != nil {
			return false
		}
	}
	return seen
}

func readWrapped(data []byte) (json.RawMessage, metadata.Object, error) {
	r := jsonx.NewReader(data)
	tok, err := r.Token()
	if err != nil {
		return nil, metadata.Object{}, syntaxErr(AttrData, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, metadata.Object{}, parseErr(AttrData, "wrapped payload must be a JSON object, got "+jsonx.Describe(tok))
	}

	var value json.RawMessage
	var md metadata.Object
	for r.More() {
		name, err := r.Name()
		if err != nil {
			return nil, metadata.Object{}, syntaxErr(AttrData, err)
		}
		switch name {
		case "value":
			value, err = r.Raw()
		case "metadata":
			md, err = metadata.ReadJSONObject(r, metadata.SerializeInCloudEventData)
		default:
			err = r.Skip()
		}
		if err != nil {
			return nil, metadata.Object{}, syntaxErr(AttrData, err)
		}
	}
	if err := r.Expect('}'); err != nil {
		return nil, metadata.Object{}, syntaxErr(AttrData, err)
	}
	if value == nil {
		return nil, metadata.Object{}, parseErr(AttrData, "wrapped payload is missing 'value'")
	}
	if isNullRaw(value) {
		return nil, metadata.Object{}, parseErr(AttrData, "wrapped payload 'value' must not be null")
	}
	return value, md, nil
}

// readSuccessMetadata reads the optional metadata object of a success
// payload without a value. Other properties are ignored.
func readSuccessMetadata(data []byte) (metadata.Object, error) {
	r := jsonx.NewReader(data)
	tok, err := r.Token()
	if err != nil {
		return metadata.Object{}, syntaxErr(AttrData, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return metadata.Object{}, parseErr(AttrData, "success payload must be a JSON object, got "+jsonx.Describe(tok))
	}
	var md metadata.Object
	for r.More() {
		name, err := r.Name()
		if err != nil {
			return metadata.Object{}, syntaxErr(AttrData, err)
		}
		if name == "metadata" {
			md, err = metadata.ReadJSONObject(r, metadata.SerializeInCloudEventData)
		} else {
			err = r.Skip()
		}
		if err != nil {
			return metadata.Object{}, syntaxErr(AttrData, err)
		}
	}
	if err := r.Expect('}'); err != nil {
		return metadata.Object{}, syntaxErr(AttrData, err)
	}
	return md, nil
}

func readFailurePayload(data []byte) (results.Errors, metadata.Object, error) {
	r := jsonx.NewReader(data)
	tok, err := r.Token()
	if err != nil {
		return results.Errors{}, metadata.Object{}, syntaxErr(AttrData, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return results.Errors{}, metadata.Object{}, parseErr(AttrData, "failure payload must be a JSON object, got "+jsonx.Describe(tok))
	}

	var errs []results.Error
	var md metadata.Object
	for r.More() {
		name, err := r.Name()
		if err != nil {
			return results.Errors{}, metadata.Object{}, syntaxErr(AttrData, err)
		}
		switch name {
		case "errors":
			errs, err = readErrors(r)
		case "metadata":
			md, err = metadata.ReadJSONObject(r, metadata.SerializeInCloudEventData)
		default:
			err = r.Skip()
		}
		if err != nil {
			return results.Errors{}, metadata.Object{}, syntaxErr(AttrData, err)
		}
	}
	if err := r.Expect('}'); err != nil {
		return results.Errors{}, metadata.Object{}, syntaxErr(AttrData, err)
	}
	if len(errs) == 0 {
		return results.Errors{}, metadata.Object{}, parseErr(AttrData, "failure payload must contain a non-empty errors array")
	}
	set, err := results.NewErrors(errs...)
	if err != nil {
		return results.Errors{}, metadata.Object{}, parseErrWrap(AttrData, "failure payload contains an invalid error", err)
	}
	return set, md, nil
}

// readErrors reads either an array of error objects or a validation map of
// target to message(s).
func readErrors(r *jsonx.Reader) ([]results.Error, error) {
	tok, err := r.Token()
	if err != nil {
		return nil, err
	}
	d, _ := tok.(json.Delim)
	switch d {
	case '[':
		var errs []results.Error
		for i := 0; r.More(); i++ {
			e, err := readError(r, i)
			if err != nil {
				return nil, err
			}
			errs = append(errs, e)
		}
		return errs, r.Expect(']')
	case '{':
		return readValidationErrors(r)
	}
	return nil, parseErr(AttrData, "'errors' must be an array or an object, got "+jsonx.Describe(tok))
}

func readError(r *jsonx.Reader, i int) (results.Error, error) {
	tok, err := r.Token()
	if err != nil {
		return results.Error{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return results.Error{}, parseErr(AttrData, fmt.Sprintf("errors[%d] must be a JSON object, got %s", i, jsonx.Describe(tok)))
	}

	var e results.Error
	for r.More() {
		name, err := r.Name()
		if err != nil {
			return results.Error{}, err
		}
		switch name {
		case "message":
			e.Message, err = errorString(r, i, name)
		case "code":
			e.Code, err = errorString(r, i, name)
		case "target":
			e.Target, err = errorString(r, i, name)
		case "category":
			var s string
			s, err = errorString(r, i, name)
			if err == nil && s != "" {
				e.Category, err = results.ParseCategory(s)
				if err != nil {
					err = parseErrWrap(AttrData, fmt.Sprintf("errors[%d].category is unknown", i), err)
				}
			}
		case "metadata":
			e.Metadata, err = metadata.ReadJSONObject(r, metadata.SerializeInCloudEventData)
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
		return results.Error{}, parseErr(AttrData, fmt.Sprintf("errors[%d].message is required", i))
	}
	return e, nil
}

func errorString(r *jsonx.Reader, i int, field string) (string, error) {
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
	return "", parseErr(AttrData, fmt.Sprintf("errors[%d].%s must be a string or null, got %s", i, field, jsonx.Describe(tok)))
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
		switch t := tok.(type) {
		case string:
			errs = append(errs, results.ValidationError(target, t))
			continue
		case json.Delim:
			if t == '[' {
				for r.More() {
					msg, err := requiredString(r, AttrData)
					if err != nil {
						return nil, parseErr(AttrData, fmt.Sprintf("validation messages for %q must be strings", target))
					}
					errs = append(errs, results.ValidationError(target, msg))
				}
				if err := r.Expect(']'); err != nil {
					return nil, err
				}
				continue
			}
		}
		return nil, parseErr(AttrData, fmt.Sprintf("validation messages for %q must be a string or an array of strings", target))
	}
	return errs, r.Expect('}')
}
