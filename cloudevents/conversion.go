package cloudevents

import (
	"fmt"

	"github.com/hupe1980/results/metadata"
)

// AttributeConverter turns metadata entries into CloudEvents attributes.
type AttributeConverter interface {
	// MetadataKeys lists the metadata keys handled by the converter.
	MetadataKeys() []string
	// ConvertAttribute returns the attribute name and value for key.
	ConvertAttribute(key string, v metadata.Value) (string, metadata.Value, error)
}

// ConverterFunc adapts a function to AttributeConverter for a fixed key set.
type ConverterFunc struct {
	Keys    []string
	Convert func(key string, v metadata.Value) (string, metadata.Value, error)
}

// MetadataKeys implements AttributeConverter.
func (f ConverterFunc) MetadataKeys() []string { return f.Keys }

// ConvertAttribute implements AttributeConverter.
func (f ConverterFunc) ConvertAttribute(key string, v metadata.Value) (string, metadata.Value, error) {
	return f.Convert(key, v)
}

// RenameConverter maps metadata keys to attribute names without touching
// the values.
func RenameConverter(names map[string]string) AttributeConverter {
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	return ConverterFunc{
		Keys: keys,
		Convert: func(key string, v metadata.Value) (string, metadata.Value, error) {
			return names[key], v, nil
		},
	}
}

// ConverterRegistry is an immutable lookup from metadata key to converter.
// The zero value is an empty registry.
type ConverterRegistry struct {
	byKey map[string]AttributeConverter
}

// NewConverterRegistry indexes converters by their metadata keys. Two
// converters claiming the same key fail with ErrConflict.
func NewConverterRegistry(converters ...AttributeConverter) (ConverterRegistry, error) {
	byKey := make(map[string]AttributeConverter)
	for _, c := range converters {
		for _, key := range c.MetadataKeys() {
			if _, dup := byKey[key]; dup {
				return ConverterRegistry{}, fmt.Errorf("%w: metadata key %q is claimed by more than one converter", ErrConflict, key)
			}
			byKey[key] = c
		}
	}
	return ConverterRegistry{byKey: byKey}, nil
}

// Lookup returns the converter registered for key.
func (r ConverterRegistry) Lookup(key string) (AttributeConverter, bool) {
	c, ok := r.byKey[key]
	return c, ok
}

// Len returns the number of registered keys.
func (r ConverterRegistry) Len() int { return len(r.byKey) }

// AttributeConversionService prepares metadata entries for emission as
// CloudEvents attributes.
type AttributeConversionService interface {
	PrepareAttribute(key string, v metadata.Value) (string, metadata.Value, error)
}

// ConversionService is the registry-backed AttributeConversionService.
// Unregistered keys pass through unchanged before validation.
type ConversionService struct {
	registry ConverterRegistry
}

// NewConversionService returns a service backed by registry.
func NewConversionService(registry ConverterRegistry) *ConversionService {
	return &ConversionService{registry: registry}
}

// PrepareAttribute implements AttributeConversionService.
func (s *ConversionService) PrepareAttribute(key string, v metadata.Value) (string, metadata.Value, error) {
	name, value := key, v
	if c, ok := s.registry.Lookup(key); ok {
		var err error
		name, value, err = c.ConvertAttribute(key, v)
		if err != nil {
			return "", metadata.Value{}, &AttributeError{Attribute: key, Reason: "could not be converted", Err: err}
		}
	}
	if err := validateAttribute(name, value); err != nil {
		return "", metadata.Value{}, err
	}
	return name, value, nil
}

func validateAttribute(name string, v metadata.Value) error {
	if isBlank(name) {
		return attrErr(name, "name must not be blank")
	}
	if IsReservedAttribute(name) {
		return attrErr(name, "is reserved")
	}
	if IsStandardAttribute(name) {
		return nil
	}
	if !isExtensionName(name) {
		return attrErr(name, "name must consist of lowercase letters and digits only")
	}
	if !v.Kind().IsPrimitive() {
		return attrErr(name, "must be a primitive JSON value, got "+v.Kind().String())
	}
	return nil
}

var defaultConversionService = NewConversionService(ConverterRegistry{})
