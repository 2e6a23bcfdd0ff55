package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Classes: []ClassSchema{
			{
				Name: "Etapa",
				Properties: []PropertySchema{
					{Name: "name", DataTypes: []string{"text"}},
					{Name: "ordem", DataTypes: []string{"int"}},
					{Name: "belongsToFluxo", DataTypes: []string{"Fluxo"}},
					{Name: "hasFicheiros", DataTypes: []string{"Ficheiro"}},
				},
			},
			{
				Name: "Fluxo",
				Properties: []PropertySchema{
					{Name: "name", DataTypes: []string{"text"}},
				},
			},
			{
				Name: "Ficheiro",
				Properties: []PropertySchema{
					{Name: "path", DataTypes: []string{"text"}},
					{Name: "hasEntidades", DataTypes: []string{"Entidade"}},
				},
			},
			{
				Name: "Entidade",
				Properties: []PropertySchema{
					{Name: "name", DataTypes: []string{"text"}},
				},
			},
			{
				Name: "Anexo",
				Properties: []PropertySchema{
					{Name: "attachedTo", DataTypes: []string{"Etapa", "Ficheiro"}},
				},
			},
		},
	}
}

func TestIsReferenceDataType(t *testing.T) {
	tests := []struct {
		dataType string
		want     bool
	}{
		{"text", false},
		{"int", false},
		{"number", false},
		{"boolean", false},
		{"date", false},
		{"text[]", false},
		{"Fluxo", true},
		{"Entidade", true},
		{"F", true},
		{"", false},
		{"émbedding", false},
	}

	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReferenceDataType(tt.dataType))
		})
	}
}

func TestOutgoingRefs(t *testing.T) {
	snap := testSnapshot()

	edges := OutgoingRefs(snap, "Etapa")
	require.Len(t, edges, 2)
	assert.Equal(t, ReferenceEdge{FromClass: "Etapa", Property: "belongsToFluxo", Targets: []string{"Fluxo"}}, edges[0])
	assert.Equal(t, ReferenceEdge{FromClass: "Etapa", Property: "hasFicheiros", Targets: []string{"Ficheiro"}}, edges[1])
}

func TestOutgoingRefs_MultipleTargets(t *testing.T) {
	edges := OutgoingRefs(testSnapshot(), "Anexo")
	require.Len(t, edges, 1)
	assert.Equal(t, []string{"Etapa", "Ficheiro"}, edges[0].Targets)
}

func TestOutgoingRefs_Total(t *testing.T) {
	assert.Empty(t, OutgoingRefs(nil, "Etapa"))
	assert.Empty(t, OutgoingRefs(testSnapshot(), "NoSuchClass"))
	assert.Empty(t, OutgoingRefs(testSnapshot(), "Fluxo"))
}

func TestIncomingRefs(t *testing.T) {
	snap := testSnapshot()

	refs := IncomingRefs(snap, "Ficheiro")
	require.Len(t, refs, 2)
	assert.Equal(t, IncomingRef{FromClass: "Etapa", Property: "hasFicheiros"}, refs[0])
	assert.Equal(t, IncomingRef{FromClass: "Anexo", Property: "attachedTo"}, refs[1])
}

func TestIncomingRefs_Total(t *testing.T) {
	assert.Empty(t, IncomingRefs(nil, "Fluxo"))
	assert.Empty(t, IncomingRefs(testSnapshot(), "NoSuchClass"))
}

// Incoming refs are exactly the reverse of outgoing refs: (D, p) is incoming
// for C iff C appears in the targets of D's edge for p.
func TestIncomingOutgoingDuality(t *testing.T) {
	snap := testSnapshot()

	for _, class := range snap.Classes {
		incoming := IncomingRefs(snap, class.Name)
		for _, in := range incoming {
			edges := OutgoingRefs(snap, in.FromClass)
			found := false
			for _, edge := range edges {
				if edge.Property != in.Property {
					continue
				}
				for _, target := range edge.Targets {
					if target == class.Name {
						found = true
					}
				}
			}
			assert.True(t, found, "incoming ref %v for %s has no matching outgoing edge", in, class.Name)
		}

		for _, edge := range OutgoingRefs(snap, class.Name) {
			for _, target := range edge.Targets {
				assert.Contains(t, IncomingRefs(snap, target),
					IncomingRef{FromClass: class.Name, Property: edge.Property})
			}
		}
	}
}

func TestTargetsForProperty(t *testing.T) {
	snap := testSnapshot()

	assert.Equal(t, []string{"Fluxo"}, TargetsForProperty(snap, "Etapa", "belongsToFluxo"))
	assert.Equal(t, []string{"Etapa", "Ficheiro"}, TargetsForProperty(snap, "Anexo", "attachedTo"))

	assert.Empty(t, TargetsForProperty(snap, "Etapa", "name"), "scalar property has no targets")
	assert.Empty(t, TargetsForProperty(snap, "Etapa", "nope"))
	assert.Empty(t, TargetsForProperty(snap, "NoSuchClass", "belongsToFluxo"))
	assert.Empty(t, TargetsForProperty(nil, "Etapa", "belongsToFluxo"))
}

func TestHybridEligible(t *testing.T) {
	tests := []struct {
		name  string
		class ClassSchema
		want  bool
	}{
		{"text2vec vectorizer", ClassSchema{Vectorizer: "text2vec-openai"}, true},
		{"none vectorizer", ClassSchema{Vectorizer: "none"}, false},
		{"none uppercase", ClassSchema{Vectorizer: "NONE"}, false},
		{"empty vectorizer", ClassSchema{Vectorizer: ""}, false},
		{"whitespace vectorizer", ClassSchema{Vectorizer: "  "}, false},
		{"module config only", ClassSchema{ModuleConfig: map[string]any{"text2vec-openai": map[string]any{}}}, true},
		{"none vectorizer with module config", ClassSchema{Vectorizer: "none", ModuleConfig: map[string]any{"reranker": true}}, true},
		{"nothing at all", ClassSchema{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.class.HybridEligible())
		})
	}
}
