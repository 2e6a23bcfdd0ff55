package explore

import (
	"fmt"
	"strings"

	"github.com/atlasgraph/weaviate-atlas/internal/schema"
)

const (
	// missedFieldCap bounds the preview of unrequested fields per class.
	missedFieldCap = 12

	// noneToken marks a row whose reference resolved to nothing. Rows are
	// never omitted for having no reference values.
	noneToken = "none"

	ellipsis = "…"
)

// RefGroup is one labelled set of resolved reference values on a row.
type RefGroup struct {
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// Row is one matched entity with its simplified reference chains.
type Row struct {
	Label string     `json:"label"`
	Refs  []RefGroup `json:"refs,omitempty"`
}

// MissedFields lists the declared properties of a class that the caller did
// not request, in declaration order.
type MissedFields struct {
	Class  string   `json:"class"`
	Fields []string `json:"fields"`
}

// Report is the complete outcome of a traversal, ready for rendering.
// Rendering is deterministic: identical reports produce byte-identical text.
type Report struct {
	Collection       string                 `json:"collection"`
	Query            string                 `json:"query"`
	Limit            int                    `json:"limit,omitempty"`
	Hybrid           bool                   `json:"hybrid"`
	SchemaKnown      bool                   `json:"schemaKnown"`
	KnownCollections []string               `json:"knownCollections,omitempty"`
	Rows             []Row                  `json:"rows"`
	Missed           []MissedFields         `json:"missedFields,omitempty"`
	Outgoing         []schema.ReferenceEdge `json:"linksOut,omitempty"`
	Incoming         []schema.IncomingRef   `json:"linksIn,omitempty"`
}

// Render produces the multi-line text report. Section order is fixed:
// header, warnings, known collections, rows, missed fields, link catalogue.
func (r *Report) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Results for collection %q matching %q", r.Collection, r.Query)
	if r.Limit > 0 {
		fmt.Fprintf(&b, " (limit %d)", r.Limit)
	}
	b.WriteString("\n")

	if !r.Hybrid {
		fmt.Fprintf(&b, "Warning: hybrid search skipped for %q (no vectorizer or module config); keyword-only results.\n", r.Collection)
	}
	if !r.SchemaKnown {
		b.WriteString("Warning: schema unavailable; field and link discovery disabled.\n")
	}

	if len(r.KnownCollections) > 0 {
		fmt.Fprintf(&b, "Known collections: %s\n", strings.Join(r.KnownCollections, ", "))
	}

	if len(r.Rows) == 0 {
		b.WriteString("No matches found.\n")
	}
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "- %s", row.Label)
		for _, ref := range row.Refs {
			values := noneToken
			if len(ref.Values) > 0 {
				values = strings.Join(ref.Values, ", ")
			}
			fmt.Fprintf(&b, " | %s: %s", ref.Label, values)
		}
		b.WriteString("\n")
	}

	for _, missed := range r.Missed {
		if len(missed.Fields) == 0 {
			continue
		}
		preview := missed.Fields
		truncated := false
		if len(preview) > missedFieldCap {
			preview = preview[:missedFieldCap]
			truncated = true
		}
		fmt.Fprintf(&b, "Fields on %s not requested: %s", missed.Class, strings.Join(preview, ", "))
		if truncated {
			b.WriteString(", " + ellipsis)
		}
		b.WriteString("\n")
	}

	for _, edge := range r.Outgoing {
		fmt.Fprintf(&b, "Link out: %s -> %s\n", edge.Property, strings.Join(edge.Targets, " | "))
	}
	for _, in := range r.Incoming {
		fmt.Fprintf(&b, "Link in: %s.%s -> %s\n", in.FromClass, in.Property, r.Collection)
	}

	return b.String()
}
