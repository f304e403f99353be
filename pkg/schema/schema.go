// Package schema loads the graph schema descriptor and validates
// extracted entities and relationships against it. The descriptor is
// data, not code: entity and relationship types are declared in a YAML
// file and enforced at ingestion time according to the extraction
// strategy's validation mode.
package schema

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/soundprediction/docugraph/pkg/types"
)

var (
	// ErrUnknownEntityType is returned for an entity whose type the
	// descriptor does not declare.
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrUnknownRelationshipType is returned for a relationship whose
	// type the descriptor does not declare.
	ErrUnknownRelationshipType = errors.New("unknown relationship type")

	// ErrMissingRequired is returned when a declared required property
	// is absent.
	ErrMissingRequired = errors.New("missing required property")

	// ErrInvalidIdentifier is returned for type names that are not safe
	// to interpolate as graph labels.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// identifierPattern is the only shape ever interpolated into a query as
// a label or relationship type. Everything else travels as a parameter.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name is safe to use as a graph label
// or relationship type.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// PropertyDef declares one entity property.
type PropertyDef struct {
	Type        string `yaml:"type"`
	Required    bool   `yaml:"required"`
	Description string `yaml:"description,omitempty"`
}

// EntityDef declares one entity type.
type EntityDef struct {
	Description string                 `yaml:"description,omitempty"`
	Properties  map[string]PropertyDef `yaml:"properties,omitempty"`
}

// RelationshipDef declares one relationship type and the entity types
// it may connect. Empty Source/Target lists allow any type.
type RelationshipDef struct {
	Description string   `yaml:"description,omitempty"`
	Source      []string `yaml:"source,omitempty"`
	Target      []string `yaml:"target,omitempty"`
}

// Descriptor is the loaded schema: the set of entity and relationship
// types the graph may contain.
type Descriptor struct {
	Name          string                     `yaml:"name"`
	Version       string                     `yaml:"version,omitempty"`
	Entities      map[string]EntityDef       `yaml:"entities"`
	Relationships map[string]RelationshipDef `yaml:"relationships"`
}

// Load reads and validates a descriptor from a YAML file.
func Load(path string) (*Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a descriptor from YAML bytes.
func Parse(raw []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if err := d.check(); err != nil {
		return nil, err
	}
	return &d, nil
}

// check verifies that every declared type name is a safe identifier and
// that relationship endpoint types exist.
func (d *Descriptor) check() error {
	for name := range d.Entities {
		if !ValidIdentifier(name) {
			return fmt.Errorf("%w: entity type %q", ErrInvalidIdentifier, name)
		}
	}
	for name, rel := range d.Relationships {
		if !ValidIdentifier(name) {
			return fmt.Errorf("%w: relationship type %q", ErrInvalidIdentifier, name)
		}
		for _, t := range append(append([]string{}, rel.Source...), rel.Target...) {
			if _, ok := d.Entities[t]; !ok {
				return fmt.Errorf("relationship %s references undeclared entity type %q", name, t)
			}
		}
	}
	return nil
}

// EntityTypes returns the declared entity type names, sorted.
func (d *Descriptor) EntityTypes() []string {
	out := make([]string, 0, len(d.Entities))
	for name := range d.Entities {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HasEntityType reports whether the descriptor declares the type.
func (d *Descriptor) HasEntityType(name string) bool {
	_, ok := d.Entities[name]
	return ok
}

// ValidateEntity checks an entity against the descriptor. When
// requireProps is set, missing required properties are an error;
// otherwise only the type is checked.
func (d *Descriptor) ValidateEntity(e *types.Entity, requireProps bool) error {
	def, ok := d.Entities[e.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEntityType, e.Type)
	}
	if !requireProps {
		return nil
	}
	for prop, pd := range def.Properties {
		if !pd.Required {
			continue
		}
		if v, ok := e.Properties[prop]; !ok || v == nil || v == "" {
			return fmt.Errorf("%w: %s.%s", ErrMissingRequired, e.Type, prop)
		}
	}
	return nil
}

// ValidateRelationship checks a relationship type against the
// descriptor and, when endpoint types are supplied, that the connection
// is allowed.
func (d *Descriptor) ValidateRelationship(r *types.Relationship, sourceType, targetType string) error {
	def, ok := d.Relationships[r.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRelationshipType, r.Type)
	}
	if len(def.Source) > 0 && sourceType != "" && !contains(def.Source, sourceType) {
		return fmt.Errorf("relationship %s does not allow source type %q", r.Type, sourceType)
	}
	if len(def.Target) > 0 && targetType != "" && !contains(def.Target, targetType) {
		return fmt.Errorf("relationship %s does not allow target type %q", r.Type, targetType)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
