package thimble

import (
	"fmt"
	"io"
	"reflect"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type yamlSource struct {
	Bindings []yamlBinding `yaml:"bindings" validate:"required,min=1,dive"`
}

type yamlBinding struct {
	Type           string     `yaml:"type" validate:"required"`
	Implementation string     `yaml:"implementation"`
	Value          *yaml.Node `yaml:"value" validate:"-"`
	Markers        []string   `yaml:"markers" validate:"dive,required"`
	Static         bool       `yaml:"static"`
}

var sourceValidator = validator.New()

// FromYAML reads a bindings document:
//
//	bindings:
//	  - type: Repository
//	    implementation: PostgresRepository
//	    markers: [singleton]
//	  - type: Settings
//	    value: {port: 8080}
//	    static: true
//
// Names refer to types. An entry with a value is decoded into its type and
// bound as an instance; otherwise its implementation is bound by injection.
// Markers use the struct tag grammar.
func (cfg *Config) FromYAML(r io.Reader, types *Types) error {
	var src yamlSource

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&src); err != nil {
		return errInvalidSource("decode yaml", err)
	}
	if err := sourceValidator.Struct(&src); err != nil {
		return errInvalidSource("validate yaml", err)
	}

	for i, entry := range src.Bindings {
		if err := cfg.applyYAMLBinding(entry, types); err != nil {
			return errInvalidSource(fmt.Sprintf("binding %d (%s)", i, entry.Type), err)
		}
	}
	return nil
}

func (cfg *Config) applyYAMLBinding(entry yamlBinding, types *Types) error {
	typ, ok := types.Lookup(entry.Type)
	if !ok {
		return fmt.Errorf("unknown type %q", entry.Type)
	}
	c := Component{Type: typ}

	hasValue := entry.Value != nil
	hasImpl := entry.Implementation != ""
	if hasValue == hasImpl {
		return fmt.Errorf("exactly one of value and implementation is required")
	}

	var markers []Marker
	for _, s := range entry.Markers {
		parsed, err := cfg.parseMarkers(c, s)
		if err != nil {
			return err
		}
		markers = append(markers, parsed...)
	}

	if hasValue {
		v := reflect.New(typ)
		if err := entry.Value.Decode(v.Interface()); err != nil {
			return fmt.Errorf("decode value: %w", err)
		}
		return cfg.bindInstance(typ, v.Elem().Interface(), markers, entry.Static)
	}

	impl, ok := types.Lookup(entry.Implementation)
	if !ok {
		return fmt.Errorf("unknown implementation %q", entry.Implementation)
	}
	return cfg.bindComponent(typ, impl, markers, entry.Static)
}
