package cloudevents

import (
	"fmt"

	"github.com/hupe1980/results/metadata"
)

// AttributeParser turns CloudEvents extension attributes into metadata.
type AttributeParser interface {
	// MetadataKey is the key under which parsed values are stored.
	MetadataKey() string
	// AttributeNames lists the extension attributes handled by the parser.
	AttributeNames() []string
	// ParseAttribute converts the attribute value. a is the annotation the
	// service would apply by default.
	ParseAttribute(name string, v metadata.Value, a metadata.Annotation) (metadata.Value, error)
}

// ParserFunc adapts a function to AttributeParser.
type ParserFunc struct {
	Key   string
	Names []string
	Parse func(name string, v metadata.Value, a metadata.Annotation) (metadata.Value, error)
}

// MetadataKey implements AttributeParser.
func (f ParserFunc) MetadataKey() string { return f.Key }

// AttributeNames implements AttributeParser.
func (f ParserFunc) AttributeNames() []string { return f.Names }

// ParseAttribute implements AttributeParser.
func (f ParserFunc) ParseAttribute(name string, v metadata.Value, a metadata.Annotation) (metadata.Value, error) {
	if f.Parse == nil {
		return v.WithAnnotation(a), nil
	}
	return f.Parse(name, v, a)
}

// ParserRegistry is an immutable lookup from attribute name to parser.
// The zero value is an empty registry.
type ParserRegistry struct {
	byName map[string]AttributeParser
}

// NewParserRegistry indexes parsers by attribute name. Two parsers claiming
// the same attribute fail with ErrConflict.
func NewParserRegistry(parsers ...AttributeParser) (ParserRegistry, error) {
	byName := make(map[string]AttributeParser)
	for _, p := range parsers {
		for _, name := range p.AttributeNames() {
			if _, dup := byName[name]; dup {
				return ParserRegistry{}, fmt.Errorf("%w: attribute %q is claimed by more than one parser", ErrConflict, name)
			}
			byName[name] = p
		}
	}
	return ParserRegistry{byName: byName}, nil
}

// Lookup returns the parser registered for name.
func (r ParserRegistry) Lookup(name string) (AttributeParser, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Len returns the number of registered attribute names.
func (r ParserRegistry) Len() int { return len(r.byName) }

// ConflictStrategy decides what happens when two attributes map to the same
// metadata key.
type ConflictStrategy uint8

const (
	// ConflictFail rejects the envelope with ErrConflict.
	ConflictFail ConflictStrategy = iota
	// ConflictReplace keeps the value of the later attribute.
	ConflictReplace
)

// AttributeParsingService converts extension attributes into metadata.
type AttributeParsingService interface {
	ReadExtensionMetadata(ext metadata.Object) (metadata.Object, error)
	ParseExtensionAttribute(name string, v metadata.Value, a metadata.Annotation) (string, metadata.Value, error)
}

// ParsingOption configures a ParsingService.
type ParsingOption func(*ParsingService)

// WithConflictStrategy sets the conflict strategy. The default is ConflictFail.
func WithConflictStrategy(s ConflictStrategy) ParsingOption {
	return func(p *ParsingService) { p.conflict = s }
}

// WithParsedAnnotation sets the annotation applied to primitive values. The
// default is metadata.SerializeAsCloudEventExtension.
func WithParsedAnnotation(a metadata.Annotation) ParsingOption {
	return func(p *ParsingService) { p.annotation = a }
}

// ParsingService is the registry-backed AttributeParsingService.
type ParsingService struct {
	registry   ParserRegistry
	conflict   ConflictStrategy
	annotation metadata.Annotation
}

// NewParsingService returns a service backed by registry.
func NewParsingService(registry ParserRegistry, opts ...ParsingOption) *ParsingService {
	p := &ParsingService{
		registry:   registry,
		conflict:   ConflictFail,
		annotation: metadata.SerializeAsCloudEventExtension,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ReadExtensionMetadata parses every attribute of ext into one metadata object.
func (p *ParsingService) ReadExtensionMetadata(ext metadata.Object) (metadata.Object, error) {
	if ext.IsEmpty() {
		return metadata.Object{}, nil
	}
	b := metadata.NewObjectBuilder(ext.Len())
	defer b.Release()
	for name, v := range ext.All() {
		key, parsed, err := p.ParseExtensionAttribute(name, v, p.annotation)
		if err != nil {
			return metadata.Object{}, err
		}
		if b.Has(key) && p.conflict == ConflictFail {
			return metadata.Object{}, fmt.Errorf("%w: attribute %q maps to metadata key %q, which is already present", ErrConflict, name, key)
		}
		if err := b.AddOrReplace(key, parsed); err != nil {
			return metadata.Object{}, err
		}
	}
	return b.Build()
}

// ParseExtensionAttribute converts a single attribute. Unregistered
// attributes keep their name; primitive values receive a, others are
// annotated metadata.SerializeInCloudEventData.
func (p *ParsingService) ParseExtensionAttribute(name string, v metadata.Value, a metadata.Annotation) (string, metadata.Value, error) {
	if parser, ok := p.registry.Lookup(name); ok {
		parsed, err := parser.ParseAttribute(name, v, a)
		if err != nil {
			return "", metadata.Value{}, parseErrWrap(name, "could not be parsed", err)
		}
		return parser.MetadataKey(), parsed, nil
	}
	if v.Kind().IsPrimitive() {
		return name, v.WithAnnotation(a), nil
	}
	return name, v.WithAnnotation(metadata.SerializeInCloudEventData), nil
}

var defaultParsingService = NewParsingService(ParserRegistry{})
