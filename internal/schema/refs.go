package schema

import "unicode"

// ReferenceEdge is one outgoing typed reference from a class.
type ReferenceEdge struct {
	FromClass string   `json:"fromClass"`
	Property  string   `json:"property"`
	Targets   []string `json:"targets"`
}

// IncomingRef identifies a property on another class that points here.
type IncomingRef struct {
	FromClass string `json:"fromClass"`
	Property  string `json:"property"`
}

// IsReferenceDataType reports whether a data-type entry denotes a reference
// to another class. Weaviate signals references with class-name-shaped data
// types: the first character is an uppercase letter ("Fluxo"), while scalar
// types are lowercase ("text", "int").
func IsReferenceDataType(dataType string) bool {
	for _, r := range dataType {
		return unicode.IsUpper(r)
	}
	return false
}

// OutgoingRefs returns the reference edges leaving className, in property
// declaration order. Total: empty on nil snapshot or unknown class.
func OutgoingRefs(s *Snapshot, className string) []ReferenceEdge {
	class, ok := s.Class(className)
	if !ok {
		return nil
	}
	var edges []ReferenceEdge
	for _, p := range class.Properties {
		targets := p.TargetClasses()
		if len(targets) == 0 {
			continue
		}
		edges = append(edges, ReferenceEdge{
			FromClass: className,
			Property:  p.Name,
			Targets:   targets,
		})
	}
	return edges
}

// IncomingRefs returns every (class, property) pair in the snapshot whose
// targets include className. Linear scan over all classes; schemas are
// small so this stays cheap.
func IncomingRefs(s *Snapshot, className string) []IncomingRef {
	if s == nil {
		return nil
	}
	var refs []IncomingRef
	for _, class := range s.Classes {
		for _, p := range class.Properties {
			for _, target := range p.TargetClasses() {
				if target == className {
					refs = append(refs, IncomingRef{
						FromClass: class.Name,
						Property:  p.Name,
					})
					break
				}
			}
		}
	}
	return refs
}

// TargetsForProperty returns the reference targets of one named property.
// Empty when the snapshot is nil, the class or property is unknown, or the
// property is not a reference.
func TargetsForProperty(s *Snapshot, className, propertyName string) []string {
	class, ok := s.Class(className)
	if !ok {
		return nil
	}
	p, ok := class.Property(propertyName)
	if !ok {
		return nil
	}
	return p.TargetClasses()
}
