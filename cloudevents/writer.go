package cloudevents

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/hupe1980/results"
	"github.com/hupe1980/results/internal/jsonx"
	"github.com/hupe1980/results/internal/pool"
	"github.com/hupe1980/results/metadata"
)

// Attributes are the explicit per-call envelope attributes. Empty fields
// fall back to extension attributes converted from metadata, then to the
// writer defaults.
type Attributes struct {
	SuccessType string
	FailureType string
	ID          string
	Source      string
	Subject     string
	DataSchema  string
	Time        time.Time
}

// PreparedEnvelope holds the resolved attributes of an envelope about to be
// written.
type PreparedEnvelope struct {
	Type       string
	Source     string
	ID         string
	Subject    string
	DataSchema string
	Time       time.Time
	Outcome    string

	// Extensions are the converted extension attributes in emission order.
	Extensions metadata.Object

	// DataMetadata holds the metadata entries annotated for the data payload.
	DataMetadata metadata.Object

	// IncludeData reports whether a data member is emitted.
	IncludeData bool

	// Wrapped reports whether a success value is emitted as
	// {"value": ..., "metadata": {...}} instead of bare.
	Wrapped bool
}

// Writer encodes results as CloudEvents JSON envelopes.
// A Writer is immutable and safe for concurrent use.
type Writer struct {
	opts writeOptions
}

// NewWriter returns a Writer configured by opts.
func NewWriter(opts ...WriteOption) *Writer {
	o := defaultWriteOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Writer{opts: o}
}

// Write encodes a result without a value.
func (w *Writer) Write(r results.Void, attrs Attributes) ([]byte, error) {
	return w.encode(nil, r.IsSuccess(), r.Metadata(), attrs, false, voidBody(r))
}

// WriteTo streams the envelope of a result without a value to out.
func (w *Writer) WriteTo(out io.Writer, r results.Void, attrs Attributes) (int64, error) {
	b, err := w.Write(r, attrs)
	if err != nil {
		return 0, err
	}
	n, err := out.Write(b)
	return int64(n), err
}

// WriteValue encodes a result carrying a value. Successful results always
// emit data.
func WriteValue[T any](w *Writer, r results.Result[T], attrs Attributes) ([]byte, error) {
	return AppendValue(w, nil, r, attrs)
}

// AppendValue is WriteValue appending to dst.
func AppendValue[T any](w *Writer, dst []byte, r results.Result[T], attrs Attributes) ([]byte, error) {
	return w.encode(dst, r.IsSuccess(), r.Metadata(), attrs, true, valueBody(w.opts, r))
}

// WriteValueTo streams the envelope of a result carrying a value to out.
func WriteValueTo[T any](w *Writer, out io.Writer, r results.Result[T], attrs Attributes) (int64, error) {
	b, err := WriteValue(w, r, attrs)
	if err != nil {
		return 0, err
	}
	n, err := out.Write(b)
	return int64(n), err
}

// Prepare resolves the attributes of a result without a value.
func (w *Writer) Prepare(r results.Void, attrs Attributes) (PreparedEnvelope, error) {
	return w.prepare(r.IsSuccess(), r.Metadata(), attrs, false)
}

// PrepareEnvelope resolves the attributes of a result carrying a value
// without encoding the payload.
func PrepareEnvelope[T any](w *Writer, r results.Result[T], attrs Attributes) (PreparedEnvelope, error) {
	return w.prepare(r.IsSuccess(), r.Metadata(), attrs, true)
}

// dataWriter emits the value of the data member.
type dataWriter func(jw *jsonx.Writer, p PreparedEnvelope) error

func voidBody(r results.Void) dataWriter {
	return func(jw *jsonx.Writer, p PreparedEnvelope) error {
		if r.IsFailure() {
			errs, _ := r.Errors()
			return writeFailure(jw, errs, p.DataMetadata)
		}
		jw.BeginObject()
		jw.Name("metadata")
		if err := metadata.WriteJSONObject(jw, p.DataMetadata); err != nil {
			return err
		}
		jw.EndObject()
		return nil
	}
}

func valueBody[T any](o writeOptions, r results.Result[T]) dataWriter {
	return func(jw *jsonx.Writer, p PreparedEnvelope) error {
		if r.IsFailure() {
			errs, _ := r.Errors()
			return writeFailure(jw, errs, p.DataMetadata)
		}
		v, _ := r.Value()
		raw, err := o.codec.Marshal(v)
		if err != nil {
			return &AttributeError{Attribute: AttrData, Reason: "value could not be encoded", Err: err}
		}
		if !p.Wrapped {
			jw.Raw(raw)
			return nil
		}
		jw.BeginObject()
		jw.Name("value")
		jw.Raw(raw)
		jw.Name("metadata")
		if err := metadata.WriteJSONObject(jw, p.DataMetadata); err != nil {
			return err
		}
		jw.EndObject()
		return nil
	}
}

func (w *Writer) encode(dst []byte, success bool, md metadata.Object, attrs Attributes, generic bool, writeData dataWriter) ([]byte, error) {
	start := time.Now()
	p, err := w.prepare(success, md, attrs, generic)
	if err != nil {
		w.observe(p.Type, 0, start, err)
		return dst, err
	}

	buf := pool.GetEnvelopeBuffer()
	defer pool.PutEnvelopeBuffer(buf)

	jw := jsonx.NewWriter(buf)
	if err := writeEnvelope(jw, p); err != nil {
		w.observe(p.Type, 0, start, err)
		return dst, err
	}
	if p.IncludeData {
		jw.Name(AttrData)
		if err := writeData(jw, p); err != nil {
			w.observe(p.Type, 0, start, err)
			return dst, err
		}
	}
	jw.EndObject()

	out := append(dst, buf.Bytes()...)
	w.observe(p.Type, buf.Len(), start, nil)
	return out, nil
}

func (w *Writer) observe(eventType string, size int, start time.Time, err error) {
	w.opts.metrics.RecordWrite(size, time.Since(start), err)
	w.opts.logger.LogEnvelopeWrite(context.Background(), eventType, size, err)
}

// prepare converts extension metadata and resolves the envelope attributes.
// generic reports whether the payload always carries data.
func (w *Writer) prepare(success bool, md metadata.Object, attrs Attributes, generic bool) (PreparedEnvelope, error) {
	ext, err := w.convertExtensions(md)
	if err != nil {
		return PreparedEnvelope{}, err
	}

	p := PreparedEnvelope{
		Outcome:      OutcomeFailure,
		DataMetadata: md.Filter(metadata.SerializeInCloudEventData),
	}
	explicitType, defaultType := attrs.FailureType, w.opts.failureType
	if success {
		p.Outcome = OutcomeSuccess
		explicitType, defaultType = attrs.SuccessType, w.opts.successType
	}

	p.Type = firstNonBlank(explicitType, stringAttr(ext, AttrType), defaultType)
	p.Source = firstNonBlank(attrs.Source, stringAttr(ext, AttrSource), w.opts.source)
	p.ID = firstNonBlank(attrs.ID, stringAttr(ext, AttrID))
	p.Subject = firstNonBlank(attrs.Subject, stringAttr(ext, AttrSubject), w.opts.subject)
	p.DataSchema = firstNonBlank(attrs.DataSchema, stringAttr(ext, AttrDataSchema), w.opts.dataSchema)

	if p.Time = attrs.Time; p.Time.IsZero() {
		if s := stringAttr(ext, AttrTime); !isBlank(s) {
			p.Time, err = time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return p, &AttributeError{Attribute: AttrTime, Reason: "has an invalid RFC 3339 timestamp value", Err: err}
			}
		} else {
			p.Time = w.opts.now()
		}
	}

	if isBlank(p.ID) {
		p.ID = w.opts.newID()
	}
	switch {
	case isBlank(p.Type):
		return p, attrErr(AttrType, "could not be resolved")
	case isBlank(p.Source):
		return p, attrErr(AttrSource, "could not be resolved")
	case isBlank(p.ID):
		return p, attrErr(AttrID, "could not be resolved")
	case !validURIReference(p.Source):
		return p, attrErr(AttrSource, "must be a valid URI-reference")
	case !isBlank(p.DataSchema) && !validAbsoluteURI(p.DataSchema):
		return p, attrErr(AttrDataSchema, "must be an absolute URI")
	}

	p.Extensions = ext.Without(
		AttrSpecVersion, AttrType, AttrSource, AttrSubject, AttrID,
		AttrTime, AttrDataContentType, AttrDataSchema, AttrData, AttrDataBase64,
		OutcomeAttribute,
	)

	withMD := w.opts.metadataMode == MetadataAlways && !p.DataMetadata.IsEmpty()
	switch {
	case !success:
		p.IncludeData = true
	case generic:
		p.IncludeData = true
		p.Wrapped = withMD
	default:
		p.IncludeData = withMD
	}
	return p, nil
}

func (w *Writer) convertExtensions(md metadata.Object) (metadata.Object, error) {
	if !md.HasAnyAnnotated(metadata.SerializeAsCloudEventExtension) {
		return metadata.Object{}, nil
	}
	b := metadata.NewObjectBuilder(md.Len())
	defer b.Release()
	for key, v := range md.All() {
		if !v.HasAnnotation(metadata.SerializeAsCloudEventExtension) {
			continue
		}
		name, converted, err := w.opts.conversion.PrepareAttribute(key, v)
		if err != nil {
			return metadata.Object{}, err
		}
		if err := b.AddOrReplace(name, converted); err != nil {
			return metadata.Object{}, err
		}
	}
	return b.Build()
}

func writeEnvelope(jw *jsonx.Writer, p PreparedEnvelope) error {
	jw.BeginObject()
	jw.Name(AttrSpecVersion)
	jw.String(SpecVersion)
	jw.Name(AttrType)
	jw.String(p.Type)
	jw.Name(AttrSource)
	jw.String(p.Source)
	if !isBlank(p.Subject) {
		jw.Name(AttrSubject)
		jw.String(p.Subject)
	}
	if !isBlank(p.DataSchema) {
		jw.Name(AttrDataSchema)
		jw.String(p.DataSchema)
	}
	jw.Name(AttrID)
	jw.String(p.ID)
	jw.Name(AttrTime)
	jw.String(p.Time.Format(time.RFC3339Nano))
	jw.Name(OutcomeAttribute)
	jw.String(p.Outcome)
	if p.IncludeData {
		jw.Name(AttrDataContentType)
		jw.String(ContentTypeJSON)
	}
	for name, v := range p.Extensions.All() {
		jw.Name(name)
		if err := metadata.WriteJSONValue(jw, v); err != nil {
			return &AttributeError{Attribute: name, Reason: "could not be encoded", Err: err}
		}
	}
	return nil
}

func writeFailure(jw *jsonx.Writer, errs results.Errors, md metadata.Object) error {
	for i, e := range errs.All() {
		if !e.Category.IsValid() {
			return &AttributeError{Attribute: AttrData, Reason: "errors[" + strconv.Itoa(i) + "] has an undefined category " + strconv.Itoa(int(e.Category))}
		}
	}
	jw.BeginObject()
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
		if e.Target != "" {
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
	if !md.IsEmpty() {
		jw.Name("metadata")
		if err := metadata.WriteJSONObject(jw, md); err != nil {
			return err
		}
	}
	jw.EndObject()
	return nil
}

// stringAttr coerces a primitive extension attribute to its string form.
func stringAttr(ext metadata.Object, name string) string {
	v, ok := ext.Get(name)
	if !ok {
		return ""
	}
	switch v.Kind() {
	case metadata.KindString:
		s, _ := v.AsString()
		return s
	case metadata.KindBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case metadata.KindInt64:
		i, _ := v.AsInt64()
		return strconv.FormatInt(i, 10)
	case metadata.KindDouble:
		f, _ := v.AsDouble()
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return ""
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if !isBlank(v) {
			return v
		}
	}
	return ""
}
