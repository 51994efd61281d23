package archive

import (
	"context"

	"github.com/hupe1980/results"
	"github.com/hupe1980/results/cloudevents"
)

// StoreValue writes r as an envelope with w and archives it under the
// resolved event id, which is returned.
func StoreValue[T any](ctx context.Context, a *Archive, w *cloudevents.Writer, r results.Result[T], attrs cloudevents.Attributes) (string, error) {
	p, err := cloudevents.PrepareEnvelope(w, r, attrs)
	if err != nil {
		return "", err
	}
	attrs.ID, attrs.Time = p.ID, p.Time

	envelope, err := cloudevents.WriteValue(w, r, attrs)
	if err != nil {
		return "", err
	}
	return p.ID, a.Put(ctx, p.ID, envelope)
}

// Store is StoreValue for results without a value.
func Store(ctx context.Context, a *Archive, w *cloudevents.Writer, r results.Void, attrs cloudevents.Attributes) (string, error) {
	p, err := w.Prepare(r, attrs)
	if err != nil {
		return "", err
	}
	attrs.ID, attrs.Time = p.ID, p.Time

	envelope, err := w.Write(r, attrs)
	if err != nil {
		return "", err
	}
	return p.ID, a.Put(ctx, p.ID, envelope)
}

// LoadValue fetches the envelope archived under id and decodes it with rd.
func LoadValue[T any](ctx context.Context, a *Archive, rd *cloudevents.Reader, id string) (results.Result[T], error) {
	envelope, err := a.Get(ctx, id)
	if err != nil {
		return results.Result[T]{}, err
	}
	return cloudevents.ReadValue[T](rd, envelope)
}

// Load is LoadValue for results without a value.
func Load(ctx context.Context, a *Archive, rd *cloudevents.Reader, id string) (results.Void, error) {
	envelope, err := a.Get(ctx, id)
	if err != nil {
		return results.Void{}, err
	}
	return rd.Read(envelope)
}
