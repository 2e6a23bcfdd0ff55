// Package schema holds the cached view of the upstream Weaviate schema and
// the reference index derived from it.
package schema

import (
	"strings"
	"time"

	"github.com/weaviate/weaviate/entities/models"
)

// PropertySchema is one declared property of a class.
type PropertySchema struct {
	Name      string   `json:"name"`
	DataTypes []string `json:"dataTypes"`
}

// IsReference reports whether any data-type entry points at another class.
func (p PropertySchema) IsReference() bool {
	for _, dt := range p.DataTypes {
		if IsReferenceDataType(dt) {
			return true
		}
	}
	return false
}

// TargetClasses returns the class names this property references, in
// declaration order. Empty for scalar properties.
func (p PropertySchema) TargetClasses() []string {
	var targets []string
	for _, dt := range p.DataTypes {
		if IsReferenceDataType(dt) {
			targets = append(targets, dt)
		}
	}
	return targets
}

// ClassSchema is one class definition. Instances are immutable once built;
// a refresh replaces the whole snapshot rather than mutating classes.
type ClassSchema struct {
	Name         string           `json:"name"`
	Properties   []PropertySchema `json:"properties"`
	Vectorizer   string           `json:"vectorizer,omitempty"`
	ModuleConfig map[string]any   `json:"moduleConfig,omitempty"`
}

// HybridEligible reports whether hybrid (vector-assisted) search can be used
// on this class: a non-empty vectorizer other than "none", or a non-empty
// module configuration.
func (c ClassSchema) HybridEligible() bool {
	v := strings.TrimSpace(c.Vectorizer)
	if v != "" && !strings.EqualFold(v, "none") {
		return true
	}
	return len(c.ModuleConfig) > 0
}

// PropertyNames returns the declared property names in declaration order.
func (c ClassSchema) PropertyNames() []string {
	names := make([]string, 0, len(c.Properties))
	for _, p := range c.Properties {
		names = append(names, p.Name)
	}
	return names
}

// Property looks up a declared property by name.
func (c ClassSchema) Property(name string) (PropertySchema, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return PropertySchema{}, false
}

// Snapshot is one immutable fetch of the full upstream schema.
type Snapshot struct {
	Classes   []ClassSchema
	FetchedAt time.Time
}

// Class looks up a class by exact name.
func (s *Snapshot) Class(name string) (ClassSchema, bool) {
	if s == nil {
		return ClassSchema{}, false
	}
	for _, c := range s.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return ClassSchema{}, false
}

// ClassNames returns all class names in snapshot order.
func (s *Snapshot) ClassNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Classes))
	for _, c := range s.Classes {
		names = append(names, c.Name)
	}
	return names
}

// FromModels converts the client's class models into the local data model.
func FromModels(classes []*models.Class) []ClassSchema {
	out := make([]ClassSchema, 0, len(classes))
	for _, mc := range classes {
		if mc == nil {
			continue
		}
		out = append(out, classFromModel(mc))
	}
	return out
}

func classFromModel(mc *models.Class) ClassSchema {
	c := ClassSchema{
		Name:       mc.Class,
		Vectorizer: mc.Vectorizer,
	}
	if cfg, ok := mc.ModuleConfig.(map[string]any); ok && len(cfg) > 0 {
		c.ModuleConfig = cfg
	}
	for _, mp := range mc.Properties {
		if mp == nil {
			continue
		}
		c.Properties = append(c.Properties, PropertySchema{
			Name:      mp.Name,
			DataTypes: append([]string(nil), mp.DataType...),
		})
	}
	return c
}
