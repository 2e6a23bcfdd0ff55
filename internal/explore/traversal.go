package explore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/atlasgraph/weaviate-atlas/internal/schema"
	"github.com/atlasgraph/weaviate-atlas/internal/weaviate"
)

// ErrQueryFailed wraps any store failure during query execution. Schema
// failures are absorbed instead; only the query itself is fatal.
var ErrQueryFailed = errors.New("query failed")

// OriginShape names the classes and reference properties of the fixed
// two-hop origin traversal. All names are configurable; the defaults follow
// the workflow domain (Etapa -> Fluxo, Etapa -> Ficheiro -> Entidade).
type OriginShape struct {
	Collection string
	NameField  string
	PrimaryRef string
	NestedRef  string
	DeepRef    string
}

// WithRefsRequest describes one generic one-hop traversal.
type WithRefsRequest struct {
	Collection        string
	Query             string
	ReferenceProperty string
	Fields            []string
	ReferenceFields   []string
	Limit             int
}

// Engine executes reference-aware queries. It holds no per-call state, so
// concurrent calls are independent.
type Engine struct {
	store  weaviate.Store
	cache  *schema.Cache
	origin OriginShape
	logger *slog.Logger
}

// NewEngine builds a query engine over the given store and schema cache.
func NewEngine(store weaviate.Store, cache *schema.Cache, origin OriginShape, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		cache:  cache,
		origin: origin,
		logger: logger.With("component", "explore"),
	}
}

// QueryOrigin runs the fixed origin traversal: a hybrid query over the
// origin collection projecting the name field, the primary reference (first
// linked name only), and the nested reference two levels down (deduplicated
// names). Schema failure downgrades to a schema-less report rather than
// aborting.
func (e *Engine) QueryOrigin(ctx context.Context, query string, limit int) (*Report, error) {
	snap := e.snapshot(ctx)
	shape := e.origin

	spec := BuildQuery(shape.Collection, query, []string{shape.NameField}, limit, classPtr(snap, shape.Collection), e.logger)

	nameField := graphql.Field{Name: shape.NameField}
	fields := []graphql.Field{
		nameField,
		refBlock(snap, shape.Collection, shape.PrimaryRef, []graphql.Field{nameField}),
		e.nestedRefBlock(snap, nameField),
	}

	objects, err := e.run(ctx, spec, fields)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(objects))
	for _, obj := range objects {
		row := Row{Label: labelOf(obj, shape.NameField)}

		var primary []string
		if linked := refList(obj, shape.PrimaryRef); len(linked) > 0 {
			primary = []string{labelOf(linked[0], shape.NameField)}
		}
		row.Refs = append(row.Refs, RefGroup{Label: groupLabel(shape.PrimaryRef), Values: primary})

		var deep []string
		for _, mid := range refList(obj, shape.NestedRef) {
			for _, leaf := range refList(mid, shape.DeepRef) {
				deep = append(deep, labelOf(leaf, shape.NameField))
			}
		}
		row.Refs = append(row.Refs, RefGroup{Label: groupLabel(shape.DeepRef), Values: dedupFields(deep)})

		rows = append(rows, row)
	}

	report := e.baseReport(snap, spec)
	report.Rows = rows
	report.Missed = missedFor(snap, shape.Collection, []string{shape.NameField, shape.PrimaryRef, shape.NestedRef})
	return report, nil
}

// QueryWithRefs runs a generic one-hop traversal along one caller-chosen
// reference property, projecting the caller's fields on the base objects and
// on each resolved target class. Unknown targets fall back to a fragment-less
// reference block rather than failing.
func (e *Engine) QueryWithRefs(ctx context.Context, req WithRefsRequest) (*Report, error) {
	snap := e.snapshot(ctx)

	refFields := req.ReferenceFields
	if len(refFields) == 0 {
		refFields = []string{"name"}
	}

	spec := BuildQuery(req.Collection, req.Query, req.Fields, req.Limit, classPtr(snap, req.Collection), e.logger)

	inner := make([]graphql.Field, 0, len(refFields))
	for _, f := range dedupFields(refFields) {
		inner = append(inner, graphql.Field{Name: f})
	}
	fields := append(spec.flatFields(), refBlock(snap, req.Collection, req.ReferenceProperty, inner))

	objects, err := e.run(ctx, spec, fields)
	if err != nil {
		return nil, err
	}

	label := ""
	if len(spec.Fields) > 0 {
		label = spec.Fields[0]
	}

	rows := make([]Row, 0, len(objects))
	for _, obj := range objects {
		var values []string
		for _, linked := range refList(obj, req.ReferenceProperty) {
			values = append(values, labelOf(linked, refFields...))
		}
		rows = append(rows, Row{
			Label: labelOf(obj, label),
			Refs:  []RefGroup{{Label: groupLabel(req.ReferenceProperty), Values: values}},
		})
	}

	report := e.baseReport(snap, spec)
	report.Rows = rows
	report.Missed = missedFor(snap, req.Collection, append(append([]string{}, spec.Fields...), req.ReferenceProperty))
	for _, target := range schema.TargetsForProperty(snap, req.Collection, req.ReferenceProperty) {
		report.Missed = append(report.Missed, missedFor(snap, target, refFields)...)
	}
	return report, nil
}

// run executes one assembled query and unwraps the nested result rows.
func (e *Engine) run(ctx context.Context, spec QuerySpec, fields []graphql.Field) ([]map[string]any, error) {
	resp, err := e.store.Search(ctx, spec.searchRequest(fields))
	if err != nil {
		return nil, wrapQueryError(err)
	}
	if err := responseError(resp); err != nil {
		return nil, err
	}
	return objectsFor(resp, spec.Collection), nil
}

// wrapQueryError marks a store failure as fatal to the call while keeping
// the original cause in the chain.
func wrapQueryError(err error) error {
	return fmt.Errorf("%w: %w", ErrQueryFailed, err)
}

// responseError surfaces GraphQL-level errors carried inside an otherwise
// successful response.
func responseError(resp *models.GraphQLResponse) error {
	if resp == nil || len(resp.Errors) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(resp.Errors))
	for _, gqlErr := range resp.Errors {
		if gqlErr != nil {
			msgs = append(msgs, gqlErr.Message)
		}
	}
	return fmt.Errorf("%w: %s", ErrQueryFailed, strings.Join(msgs, "; "))
}

// snapshot fetches the cached schema, absorbing upstream failure: a missing
// schema degrades the report (no hybrid, no link advertisement) instead of
// aborting the traversal.
func (e *Engine) snapshot(ctx context.Context) *schema.Snapshot {
	snap, err := e.cache.Get(ctx, false)
	if err != nil {
		e.logger.Warn("schema unavailable, continuing without it", "error", err)
		return nil
	}
	return snap
}

// baseReport fills the report sections that do not depend on result rows.
func (e *Engine) baseReport(snap *schema.Snapshot, spec QuerySpec) *Report {
	return &Report{
		Collection:       spec.Collection,
		Query:            spec.Query,
		Limit:            spec.Limit,
		Hybrid:           spec.Hybrid,
		SchemaKnown:      snap != nil,
		KnownCollections: snap.ClassNames(),
		Outgoing:         schema.OutgoingRefs(snap, spec.Collection),
		Incoming:         schema.IncomingRefs(snap, spec.Collection),
	}
}

// nestedRefBlock builds the two-level selection for the origin traversal:
// the nested reference, then the deep reference on each of its targets.
func (e *Engine) nestedRefBlock(snap *schema.Snapshot, nameField graphql.Field) graphql.Field {
	shape := e.origin
	targets := schema.TargetsForProperty(snap, shape.Collection, shape.NestedRef)
	if len(targets) == 0 {
		// Unknown shape: best-effort block without fragments.
		return graphql.Field{Name: shape.NestedRef, Fields: []graphql.Field{
			{Name: shape.DeepRef, Fields: []graphql.Field{nameField}},
		}}
	}

	frags := make([]graphql.Field, 0, len(targets))
	for _, target := range targets {
		deep := refBlock(snap, target, shape.DeepRef, []graphql.Field{nameField})
		frags = append(frags, graphql.Field{
			Name:   "... on " + target,
			Fields: []graphql.Field{deep},
		})
	}
	return graphql.Field{Name: shape.NestedRef, Fields: frags}
}

// refBlock builds the selection for one reference property: one inline
// fragment per resolved target class, since a reference may polymorphically
// point at several classes, or a fragment-less best-effort block when no
// target can be resolved.
func refBlock(snap *schema.Snapshot, className, property string, inner []graphql.Field) graphql.Field {
	targets := schema.TargetsForProperty(snap, className, property)
	if len(targets) == 0 {
		return graphql.Field{Name: property, Fields: inner}
	}
	frags := make([]graphql.Field, 0, len(targets))
	for _, target := range targets {
		frags = append(frags, graphql.Field{Name: "... on " + target, Fields: inner})
	}
	return graphql.Field{Name: property, Fields: frags}
}

// groupLabel derives a short report label from a reference property name:
// belongsToFluxo -> fluxo, hasEntidades -> entidades.
func groupLabel(property string) string {
	p := property
	for _, prefix := range []string{"belongsTo", "has"} {
		if strings.HasPrefix(p, prefix) && len(p) > len(prefix) {
			p = p[len(prefix):]
			break
		}
	}
	if p == "" {
		return property
	}
	runes := []rune(p)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// missedFor lists the declared properties of className not present in
// requested, in declaration order. Empty when the class is unknown.
func missedFor(snap *schema.Snapshot, className string, requested []string) []MissedFields {
	class, ok := snap.Class(className)
	if !ok {
		return nil
	}
	asked := make(map[string]struct{}, len(requested))
	for _, f := range requested {
		asked[f] = struct{}{}
	}
	var missed []string
	for _, name := range class.PropertyNames() {
		if _, ok := asked[name]; !ok {
			missed = append(missed, name)
		}
	}
	if len(missed) == 0 {
		return nil
	}
	return []MissedFields{{Class: className, Fields: missed}}
}

// objectsFor unwraps Get.<className> rows from a GraphQL response.
func objectsFor(resp *models.GraphQLResponse, className string) []map[string]any {
	if resp == nil {
		return nil
	}
	get, ok := resp.Data["Get"].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := get[className].([]any)
	if !ok {
		return nil
	}
	objects := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		if obj, ok := entry.(map[string]any); ok {
			objects = append(objects, obj)
		}
	}
	return objects
}

// refList extracts the linked objects of one reference property on a row.
func refList(obj map[string]any, property string) []map[string]any {
	raw, ok := obj[property].([]any)
	if !ok {
		return nil
	}
	linked := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		if m, ok := entry.(map[string]any); ok {
			linked = append(linked, m)
		}
	}
	return linked
}

// labelOf picks a display label for an object: the first preferred field
// holding a non-empty string, then "name", then a literal dump of the object
// when it carries no recognizable label.
func labelOf(obj map[string]any, preferred ...string) string {
	for _, key := range append(preferred, "name") {
		if key == "" {
			continue
		}
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return fmt.Sprintf("%v", obj)
}

// classPtr resolves a class from the snapshot, nil when unknown.
func classPtr(snap *schema.Snapshot, name string) *schema.ClassSchema {
	if class, ok := snap.Class(name); ok {
		return &class
	}
	return nil
}
