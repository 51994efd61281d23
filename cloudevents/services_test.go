package cloudevents

import (
	"errors"
	"testing"

	"github.com/hupe1980/results/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverterRegistry(t *testing.T) {
	reg, err := NewConverterRegistry(
		RenameConverter(map[string]string{"traceId": "traceid"}),
		RenameConverter(map[string]string{"tenantId": "tenant"}),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	_, ok := reg.Lookup("traceId")
	assert.True(t, ok)

	_, err = NewConverterRegistry(
		RenameConverter(map[string]string{"traceId": "a"}),
		RenameConverter(map[string]string{"traceId": "b"}),
	)
	require.ErrorIs(t, err, ErrConflict)
}

func TestConversionService_PrepareAttribute(t *testing.T) {
	reg, err := NewConverterRegistry(
		RenameConverter(map[string]string{"tenantId": "tenant", "payload": "Data"}),
		ConverterFunc{
			Keys: []string{"broken"},
			Convert: func(string, metadata.Value) (string, metadata.Value, error) {
				return "", metadata.Value{}, errors.New("boom")
			},
		},
	)
	require.NoError(t, err)
	svc := NewConversionService(reg)

	tests := []struct {
		name     string
		key      string
		value    metadata.Value
		wantName string
		reason   string
	}{
		{name: "Renamed", key: "tenantId", value: metadata.String("acme"), wantName: "tenant"},
		{name: "PassThrough", key: "region", value: metadata.Int64(1), wantName: "region"},
		{name: "Standard", key: "subject", value: metadata.String("s"), wantName: "subject"},
		{name: "Blank", key: " ", value: metadata.String("x"), reason: "blank"},
		{name: "ReservedAfterRename", key: "payload", value: metadata.String("x"), reason: "reserved"},
		{name: "Outcome", key: "lroutcome", value: metadata.String("x"), reason: "reserved"},
		{name: "UpperCase", key: "tenantID", value: metadata.String("x"), reason: "lowercase"},
		{name: "Underscore", key: "tenant_id", value: metadata.String("x"), reason: "lowercase"},
		{name: "NonPrimitive", key: "nested", value: metadata.FromObject(metadata.Object{}), reason: "primitive"},
		{name: "ConverterFails", key: "broken", value: metadata.Null(), reason: "could not be converted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, v, err := svc.PrepareAttribute(tt.key, tt.value)
			if tt.reason != "" {
				require.ErrorIs(t, err, ErrInvalidAttribute)
				assert.Contains(t, err.Error(), tt.reason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.True(t, tt.value.Equal(v))
		})
	}
}

func TestParserRegistry(t *testing.T) {
	_, err := NewParserRegistry(
		ParserFunc{Key: "a", Names: []string{"x"}},
		ParserFunc{Key: "b", Names: []string{"x"}},
	)
	require.ErrorIs(t, err, ErrConflict)

	reg, err := NewParserRegistry(ParserFunc{Key: "a", Names: []string{"x", "y"}})
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())
}

func TestParsingService_ReadExtensionMetadata(t *testing.T) {
	reg, err := NewParserRegistry(
		ParserFunc{Key: "correlationId", Names: []string{"correlationid", "traceparent"}},
		ParserFunc{
			Key:   "priority",
			Names: []string{"prio"},
			Parse: func(_ string, v metadata.Value, a metadata.Annotation) (metadata.Value, error) {
				s, ok := v.AsString()
				if !ok {
					return metadata.Value{}, errors.New("not a string")
				}
				return metadata.Int64(int64(len(s)), a), nil
			},
		},
	)
	require.NoError(t, err)

	ext := func(entries ...metadata.Entry) metadata.Object { return metadata.MustObject(entries...) }

	t.Run("Mapped", func(t *testing.T) {
		md, err := NewParsingService(reg).ReadExtensionMetadata(ext(
			metadata.Pair("correlationid", metadata.String("c-1")),
			metadata.Pair("prio", metadata.String("high")),
			metadata.Pair("tenant", metadata.String("acme")),
			metadata.Pair("blob", metadata.FromArray(metadata.NewArray(metadata.Int64(1)))),
		))
		require.NoError(t, err)

		v, ok := md.Get("correlationId")
		require.True(t, ok)
		assert.True(t, v.HasAnnotation(metadata.SerializeAsCloudEventExtension))

		prio, ok := md.GetInt64("priority")
		require.True(t, ok)
		assert.Equal(t, int64(4), prio)

		blob, ok := md.Get("blob")
		require.True(t, ok)
		assert.Equal(t, metadata.SerializeInCloudEventData, blob.Annotation())
	})

	t.Run("ConflictFails", func(t *testing.T) {
		_, err := NewParsingService(reg).ReadExtensionMetadata(ext(
			metadata.Pair("correlationid", metadata.String("c-1")),
			metadata.Pair("traceparent", metadata.String("c-2")),
		))
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("ConflictReplace", func(t *testing.T) {
		md, err := NewParsingService(reg, WithConflictStrategy(ConflictReplace)).ReadExtensionMetadata(ext(
			metadata.Pair("correlationid", metadata.String("c-1")),
			metadata.Pair("traceparent", metadata.String("c-2")),
		))
		require.NoError(t, err)
		s, _ := md.GetString("correlationId")
		assert.Equal(t, "c-2", s)
	})

	t.Run("ParserFails", func(t *testing.T) {
		_, err := NewParsingService(reg).ReadExtensionMetadata(ext(metadata.Pair("prio", metadata.Int64(1))))
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("CustomAnnotation", func(t *testing.T) {
		svc := NewParsingService(ParserRegistry{}, WithParsedAnnotation(metadata.SerializeInHTTPHeader))
		md, err := svc.ReadExtensionMetadata(ext(metadata.Pair("tenant", metadata.String("acme"))))
		require.NoError(t, err)
		v, _ := md.Get("tenant")
		assert.Equal(t, metadata.SerializeInHTTPHeader, v.Annotation())
	})
}

func TestValidators(t *testing.T) {
	assert.True(t, validURIReference("urn:test"))
	assert.True(t, validURIReference("/relative/path"))
	assert.False(t, validURIReference("://missing-scheme"))
	assert.True(t, validAbsoluteURI("https://example.com/schema"))
	assert.False(t, validAbsoluteURI("schema.json"))

	for _, ct := range []string{"application/json", "APPLICATION/JSON", "application/cloudevents+json", "application/vnd.acme+json; charset=utf-8"} {
		assert.True(t, validContentType(ct), ct)
	}
	for _, ct := range []string{"text/plain", "application/jsonx", "json"} {
		assert.False(t, validContentType(ct), ct)
	}
}

func TestAttributeNames(t *testing.T) {
	assert.True(t, IsStandardAttribute("dataschema"))
	assert.False(t, IsStandardAttribute("DataSchema"))
	assert.True(t, IsReservedAttribute("DATA"))
	assert.True(t, IsReservedAttribute("LrOutcome"))
	assert.False(t, IsReservedAttribute("tenant"))
}

func TestPayloadAndMetadataModes(t *testing.T) {
	for _, m := range []PayloadMode{PayloadAuto, PayloadBare, PayloadWrapped} {
		got, err := ParsePayloadMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParsePayloadMode("zip")
	require.Error(t, err)

	for _, m := range []MetadataMode{MetadataAlways, MetadataErrorsOnly} {
		got, err := ParseMetadataMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err = ParseMetadataMode("never")
	require.Error(t, err)
}
