package importer

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tasprorepo/pgmodeler"
	"github.com/tasprorepo/pgmodeler/catalog"
)

// defaultWorkers bounds concurrent catalog fetches.
const defaultWorkers = 4

// Importer walks the catalog in import order and emits an event stream
// to its handler: system-level objects first (roles, tablespaces,
// databases, schemas, extensions), then user-defined objects, each type
// in dependency order and each object in name order. Attribute
// retrieval is concurrent, emission is strictly sequential. When the
// backend supports transactions, the whole run reads from a single
// read-only snapshot.
type Importer struct {
	catalog  *catalog.Catalog
	handler  Handler
	logger   *zap.SugaredLogger
	filter   *pgmodeler.Filter
	schemas  []string
	workers  int
	maxFails int
}

// Option configures an Importer.
type Option func(*Importer)

// WithCatalog sets the catalog to import from.
func WithCatalog(c *catalog.Catalog) Option {
	return func(im *Importer) {
		im.catalog = c
	}
}

// WithHandler sets the event handler. Multiple handlers can be combined
// with NewMultiHandler.
func WithHandler(h Handler) Option {
	return func(im *Importer) {
		im.handler = h
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(im *Importer) {
		im.logger = logger
	}
}

// WithFilter restricts the import to objects matching the filter
// expression. Non-matching objects are emitted as skipped.
func WithFilter(f *pgmodeler.Filter) Option {
	return func(im *Importer) {
		im.filter = f
	}
}

// WithSchemas restricts user-defined objects to the given schemas.
// System-level objects are always cluster-wide.
func WithSchemas(schemas ...string) Option {
	return func(im *Importer) {
		im.schemas = schemas
	}
}

// WithConcurrency bounds the number of concurrent catalog fetches.
func WithConcurrency(n int) Option {
	return func(im *Importer) {
		if n > 0 {
			im.workers = n
		}
	}
}

// WithMaxFailures stops the import after n failed objects. Zero means
// never stop.
func WithMaxFailures(n int) Option {
	return func(im *Importer) {
		im.maxFails = n
	}
}

// New creates an Importer.
func New(opts ...Option) *Importer {
	im := &Importer{
		logger:  zap.NewNop().Sugar(),
		workers: defaultWorkers,
	}

	for _, opt := range opts {
		opt(im)
	}

	return im
}

// fetchResult holds the attribute maps of one object type, or the error
// that prevented retrieving them.
type fetchResult struct {
	attribs []pgmodeler.AttribMap
	err     error
}

// Run executes the import and returns the accumulated result. On
// ErrMaxFailures the partial result is returned alongside the error.
func (im *Importer) Run(ctx context.Context) (*Result, error) {
	if im.catalog == nil {
		return nil, ErrNoCatalog
	}

	result := NewResult()
	defer result.Finish()

	handlers := []Handler{NewResultHandler()}
	if im.handler != nil {
		handlers = append(handlers, im.handler)
	}

	if im.maxFails > 0 {
		handlers = append(handlers, NewStopOnFailHandler(im.maxFails))
	}

	chain := NewMultiHandler(handlers...)

	cat, release, err := im.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	fetched := im.fetch(ctx, cat)

	if err := im.emit(ctx, cat, chain, result, fetched); err != nil {
		return result, err
	}

	return result, nil
}

// fetch retrieves attribute maps for every supported object type,
// bounded by the worker limit. Errors are recorded per type so one
// failing query does not abort the others.
func (im *Importer) fetch(ctx context.Context, cat *catalog.Catalog) map[pgmodeler.ObjectType]*fetchResult {
	schemas := im.schemas
	if len(schemas) == 0 {
		schemas = []string{""}
	}

	var mu sync.Mutex

	fetched := make(map[pgmodeler.ObjectType]*fetchResult)

	var g errgroup.Group
	g.SetLimit(im.workers)

	for _, typ := range pgmodeler.ImportOrder() {
		if !cat.HasType(typ) {
			continue
		}

		typeSchemas := schemas
		if typ.IsSystem() {
			typeSchemas = []string{""}
		}

		g.Go(func() error {
			fr := &fetchResult{}

			for _, schema := range typeSchemas {
				rows, err := cat.SchemaAttributes(ctx, typ, schema, nil)
				if err != nil {
					fr.err = err

					break
				}

				for _, row := range rows {
					if schema != "" && row[pgmodeler.AttrSchema] == "" {
						row[pgmodeler.AttrSchema] = schema
					}
				}

				fr.attribs = append(fr.attribs, rows...)
			}

			mu.Lock()
			fetched[typ] = fr
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	return fetched
}

// emit walks the import order and dispatches events sequentially.
func (im *Importer) emit(ctx context.Context, cat *catalog.Catalog, chain Handler, result *Result, fetched map[pgmodeler.ObjectType]*fetchResult) error {
	for _, typ := range pgmodeler.ImportOrder() {
		err := im.emitType(ctx, cat, chain, result, typ, fetched[typ])
		if err != nil {
			return err
		}
	}

	return nil
}

// emitType dispatches the events of one object type.
func (im *Importer) emitType(ctx context.Context, cat *catalog.Catalog, chain Handler, result *Result, typ pgmodeler.ObjectType, fr *fetchResult) error {
	err := chain.Event(ctx, Event{Time: time.Now(), Action: ActionPhase, Type: typ}, result)
	if err != nil {
		return err
	}

	if fr == nil {
		im.logger.Debugw("type not supported by backend", "type", typ)

		return chain.Event(ctx, Event{
			Time:   time.Now(),
			Action: ActionSkip,
			Type:   typ,
			Reason: "no catalog query for backend",
		}, result)
	}

	if fr.err != nil {
		im.logger.Errorw("catalog fetch failed", "type", typ, "error", fr.err)

		return chain.Event(ctx, Event{
			Time:   time.Now(),
			Action: ActionError,
			Type:   typ,
			Error:  fr.err,
		}, result)
	}

	sortAttribs(fr.attribs)

	for _, attribs := range fr.attribs {
		err := im.emitObject(ctx, cat, chain, result, typ, attribs)
		if err != nil {
			return err
		}
	}

	return nil
}

// emitObject dispatches the events of one object: run, then exactly one
// terminal event (imported, skipped or error).
func (im *Importer) emitObject(ctx context.Context, cat *catalog.Catalog, chain Handler, result *Result, typ pgmodeler.ObjectType, attribs pgmodeler.AttribMap) error {
	ref := attribs.Ref(typ)
	start := time.Now()

	err := chain.Event(ctx, Event{Time: start, Action: ActionRun, Type: typ, Object: ref}, result)
	if err != nil {
		return err
	}

	match, err := im.filter.Match(ref)
	if err != nil {
		return im.objectError(ctx, chain, result, typ, ref, start, err)
	}

	if !match {
		im.logger.Debugw("object filtered", "type", typ, "name", ref.Name)

		return chain.Event(ctx, Event{
			Time:    time.Now(),
			Action:  ActionSkip,
			Type:    typ,
			Object:  ref,
			Elapsed: time.Since(start),
			Reason:  "filtered",
		}, result)
	}

	system := false

	// Columns carry synthetic "<table-oid>.<position>" identifiers.
	// The dependency and description catalogs are addressed by the
	// table oid, so the dotted form must never reach them.
	oid, position, isColumn := strings.Cut(ref.OID, ".")

	if !typ.IsSystem() && oid != "" {
		fromExt, err := cat.IsFromExtension(ctx, oid)
		if err != nil {
			return im.objectError(ctx, chain, result, typ, ref, start, err)
		}

		if fromExt {
			attribs = attribs.Merge(pgmodeler.AttribMap{
				pgmodeler.AttrSystem:      "1",
				pgmodeler.AttrSQLDisabled: "1",
			})
			system = true
		}
	}

	if oid != "" && attribs[pgmodeler.AttrComment] == "" {
		var comment string

		var err error

		if isColumn {
			comment, err = cat.ColumnComment(ctx, oid, position)
		} else {
			comment, err = cat.Comment(ctx, oid, sharedComment(typ))
		}

		if err != nil {
			return im.objectError(ctx, chain, result, typ, ref, start, err)
		}

		if comment != "" {
			attribs = attribs.Merge(pgmodeler.AttribMap{pgmodeler.AttrComment: comment})
		}
	}

	im.logger.Debugw("object imported",
		"type", typ, "name", ref.Name, "elapsed", time.Since(start))

	return chain.Event(ctx, Event{
		Time:    time.Now(),
		Action:  ActionImport,
		Type:    typ,
		Object:  ref,
		Attribs: attribs,
		Elapsed: time.Since(start),
		System:  system,
	}, result)
}

// objectError emits an error event for one object.
func (im *Importer) objectError(ctx context.Context, chain Handler, result *Result, typ pgmodeler.ObjectType, ref pgmodeler.ObjectRef, start time.Time, cause error) error {
	im.logger.Errorw("object import failed", "type", typ, "name", ref.Name, "error", cause)

	return chain.Event(ctx, Event{
		Time:    time.Now(),
		Action:  ActionError,
		Type:    typ,
		Object:  ref,
		Elapsed: time.Since(start),
		Error:   cause,
	}, result)
}

// sortAttribs orders rows by object name, then oid for stability.
func sortAttribs(rows []pgmodeler.AttribMap) {
	sort.SliceStable(rows, func(i, j int) bool {
		ni, nj := rows[i][pgmodeler.AttrName], rows[j][pgmodeler.AttrName]
		if ni != nj {
			return ni < nj
		}

		return rows[i][pgmodeler.AttrOID] < rows[j][pgmodeler.AttrOID]
	})
}

// sharedComment reports whether a type's comments live in the shared
// description catalog.
func sharedComment(typ pgmodeler.ObjectType) bool {
	switch typ {
	case pgmodeler.ObjectTypeRole, pgmodeler.ObjectTypeTablespace, pgmodeler.ObjectTypeDatabase:
		return true
	default:
		return false
	}
}
