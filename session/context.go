package session

import (
	stderrors "errors"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/jsonapi/document"
	"github.com/wippyai/jsonapi/errors"
	"github.com/wippyai/jsonapi/resource"
)

// Context is one processing session. It owns the pool its resources live in
// and implements resource.Owner.
type Context struct {
	pool *resource.Pool
	doc  document.Document
	cfg  config
	mu   sync.Mutex
}

// New creates a Context with an empty pool in strong ownership mode.
func New(opts ...Option) *Context {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Context{
		pool: resource.NewPool(),
		cfg:  cfg,
	}
	for _, o := range cfg.observers {
		c.pool.Subscribe(o)
	}
	return c
}

// Pool returns the Context's resource pool.
func (c *Context) Pool() *resource.Pool {
	return c.pool
}

// Document returns the last document resolved successfully, or nil.
func (c *Context) Document() document.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc
}

// Resolve turns doc into resources and reports the primary result. On error
// the pool is left unchanged. Observers are notified after the Context is
// unlocked, so they may call back into it.
func (c *Context) Resolve(doc document.Document) (DataType, error) {
	result, pending, err := c.resolve(doc)
	pending.Deliver()
	return result, err
}

func (c *Context) resolve(doc document.Document) (DataType, resource.Pending, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.newResolver()
	result, err := r.document(doc)
	if err != nil {
		Logger().Debug("document rejected", zap.Error(err))
		return DataType{}, resource.Pending{}, err
	}

	pending := c.pool.ApplyDeferred(r.batch)
	c.doc = doc

	Logger().Debug("document resolved",
		zap.Stringer("kind", result.Kind),
		zap.Int("resources", r.batch.Len()),
		zap.Int("skipped", r.skipped),
		zap.Int("pool", c.pool.Len()))
	return result, pending, nil
}

// ResolveOne resolves a single record and commits it, with its relationship
// stubs, to the pool. It returns nil without error when the record's type is
// not registered.
func (c *Context) ResolveOne(rec document.Record) (resource.Resource, error) {
	res, pending, err := c.resolveOne(rec)
	pending.Deliver()
	return res, err
}

func (c *Context) resolveOne(rec document.Record) (resource.Resource, resource.Pending, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.newResolver()
	res, err := r.record(rec, nil)
	if err != nil {
		return nil, resource.Pending{}, err
	}
	return res, c.pool.ApplyDeferred(r.batch), nil
}

// Reassign rebinds every resource in the pool to c and switches the pool to
// weak ownership mode.
func (c *Context) Reassign() {
	c.mu.Lock()
	pending := c.pool.RebindDeferred(c)
	c.mu.Unlock()

	Logger().Debug("pool reassigned", zap.Int("resources", len(pending.Events())))
	pending.Deliver()
}

func (c *Context) newResolver() *resolver {
	return &resolver{
		ctx:   c,
		batch: resource.NewBatch(c.pool),
	}
}

// resolver holds the state of one Resolve or ResolveOne call.
type resolver struct {
	ctx     *Context
	batch   *resource.Batch
	skipped int
}

func (r *resolver) document(doc document.Document) (DataType, error) {
	if included, ok := doc.Included(); ok {
		for i, item := range included {
			path := []string{document.MemberIncluded, strconv.Itoa(i)}
			rec, ok := document.RecordOf(item)
			if !ok {
				r.skip(path, "entry is not an object")
				continue
			}
			if _, err := r.record(rec, path); err != nil {
				return DataType{}, err
			}
		}
	}

	data, _ := doc.Data()
	if items, ok := data.([]any); ok {
		return r.collection(items)
	}
	if rec, ok := document.RecordOf(data); ok {
		res, err := r.record(rec, []string{document.MemberData})
		if err != nil {
			return DataType{}, err
		}
		return DataType{Kind: KindResource, Resource: res}, nil
	}

	if entries, ok := doc.Errors(); ok {
		objs := make([]document.ErrorObject, 0, len(entries))
		for i, item := range entries {
			rec, ok := document.RecordOf(item)
			if !ok {
				r.skip([]string{document.MemberErrors, strconv.Itoa(i)}, "entry is not an object")
				continue
			}
			objs = append(objs, r.ctx.cfg.parseError(rec))
		}
		return DataType{Kind: KindErrors, Errors: objs}, nil
	}

	return DataType{Kind: KindUnknown}, nil
}

// collection resolves a data array. Input order is kept. Every position of
// a repeated key holds the final instance staged for that key.
func (r *resolver) collection(items []any) (DataType, error) {
	keys := make([]resource.Key, 0, len(items))
	for i, item := range items {
		path := []string{document.MemberData, strconv.Itoa(i)}
		rec, ok := document.RecordOf(item)
		if !ok {
			r.skip(path, "entry is not an object")
			continue
		}
		res, err := r.record(rec, path)
		if err != nil {
			return DataType{}, err
		}
		if res != nil {
			keys = append(keys, res.Key())
		}
	}

	out := make([]resource.Resource, 0, len(keys))
	for _, key := range keys {
		if res, ok := r.batch.Lookup(key); ok {
			out = append(out, res)
		}
	}
	return DataType{Kind: KindCollection, Collection: out}, nil
}

// record resolves one primary or included record. It returns nil when the
// type is not registered.
func (r *resolver) record(rec document.Record, path []string) (resource.Resource, error) {
	typ, err := recordType(rec, path)
	if err != nil {
		return nil, err
	}

	ctor, ok := r.ctx.cfg.registry.Lookup(typ)
	if !ok {
		r.skip(path, "type not registered", zap.String("type", typ))
		return nil, nil
	}

	id, err := r.recordID(rec, path)
	if err != nil {
		return nil, err
	}

	res := ctor(r.ctx)
	if res == nil {
		r.skip(path, "constructor returned nil", zap.String("type", typ))
		return nil, nil
	}
	if err := resource.Initialize(res, resource.Key{ID: id, Type: typ}, r.ctx); err != nil {
		return nil, withPath(err, path)
	}

	r.batch.Insert(res)
	resource.Attach(res, rec)

	if err := r.relationships(res, rec, path); err != nil {
		return nil, err
	}
	return res, nil
}

// relationships adds a stub for every relationship target. Names are walked
// in sorted order so generated ids are assigned deterministically.
func (r *resolver) relationships(owner resource.Resource, rec document.Record, path []string) error {
	raw, ok := rec.Relationships()
	if !ok || raw == nil {
		return nil
	}
	relPath := at(path, document.MemberRelationships)
	rels, ok := document.ObjectOf(raw)
	if !ok {
		return errors.TypeMismatch(errors.PhaseResolve, relPath, "object", errors.ShapeOf(raw))
	}

	names := make([]string, 0, len(rels))
	for name := range rels {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := rels[name]
		if value == nil {
			continue
		}
		namePath := at(relPath, name)
		rel, ok := document.ObjectOf(value)
		if !ok {
			return errors.TypeMismatch(errors.PhaseResolve, namePath, "object", errors.ShapeOf(value))
		}
		linkage, ok := rel[document.MemberData]
		if !ok {
			continue
		}
		refs, err := document.References(linkage)
		if err != nil {
			return withPath(err, at(namePath, document.MemberData))
		}
		for i, ref := range refs {
			if err := r.stub(owner, name, i, ref, namePath); err != nil {
				return err
			}
		}
	}
	return nil
}

// stub stages a placeholder for ref unless its key is already known. A
// reference without a type takes the relationship name. A generated id is
// bound to owner so the relationship stays navigable.
func (r *resolver) stub(owner resource.Resource, name string, index int, ref document.Reference, path []string) error {
	typ := ref.Type
	if !ref.HasType {
		typ = name
	}

	ctor, ok := r.ctx.cfg.registry.Lookup(typ)
	if !ok {
		return nil
	}

	id := ref.ID
	if !ref.HasID {
		dataPath := at(path, document.MemberData)
		if malformedID(ref.RawID) {
			return invalidID(ref.RawID, at(dataPath, document.MemberID))
		}
		if r.ctx.cfg.strictIDs {
			return errors.FieldMissing(errors.PhaseResolve, dataPath, document.MemberID)
		}
		id = r.ctx.cfg.newID()
	}

	key := resource.Key{ID: id, Type: typ}
	if !ref.HasID {
		resource.BindGenerated(owner, name, index, key)
	}
	if _, exists := r.batch.Lookup(key); exists {
		return nil
	}

	res := ctor(r.ctx)
	if res == nil {
		return nil
	}
	if err := resource.Initialize(res, key, r.ctx); err != nil {
		return withPath(err, path)
	}
	r.batch.InsertIfAbsent(res)
	return nil
}

func (r *resolver) recordID(rec document.Record, path []string) (string, error) {
	if id, ok := rec.ID(); ok {
		return id, nil
	}
	if raw := rec[document.MemberID]; malformedID(raw) {
		return "", invalidID(raw, at(path, document.MemberID))
	}
	if r.ctx.cfg.strictIDs {
		return "", errors.FieldMissing(errors.PhaseResolve, path, document.MemberID)
	}
	id := r.ctx.cfg.newID()
	Logger().Debug("generated resource id",
		zap.Strings("path", path),
		zap.String("id", id))
	return id, nil
}

func (r *resolver) skip(path []string, reason string, fields ...zap.Field) {
	r.skipped++
	Logger().Debug("skipped record",
		append([]zap.Field{zap.Strings("path", path), zap.String("reason", reason)}, fields...)...)
}

func recordType(rec document.Record, path []string) (string, error) {
	raw, present := rec[document.MemberType]
	if !present || raw == nil {
		return "", errors.FieldMissing(errors.PhaseResolve, path, document.MemberType)
	}
	typ, ok := raw.(string)
	if !ok {
		return "", errors.TypeMismatch(errors.PhaseResolve, at(path, document.MemberType), "string", errors.ShapeOf(raw))
	}
	if typ == "" {
		return "", errors.FieldMissing(errors.PhaseResolve, path, document.MemberType)
	}
	return typ, nil
}

// malformedID reports whether an id member is present with a shape that
// cannot be an id. Null and the empty string count as absent.
func malformedID(raw any) bool {
	if raw == nil {
		return false
	}
	s, ok := raw.(string)
	return !ok || s != ""
}

func invalidID(raw any, path []string) error {
	return errors.New(errors.PhaseResolve, errors.KindTypeMismatch).
		Path(path...).
		Want("string or number").
		Got(errors.ShapeOf(raw)).
		Value(raw).
		Build()
}

func at(path []string, elems ...string) []string {
	out := make([]string, 0, len(path)+len(elems))
	out = append(out, path...)
	return append(out, elems...)
}

func withPath(err error, path []string) error {
	var e *errors.Error
	if stderrors.As(err, &e) && len(e.Path) == 0 {
		e.Path = path
	}
	return err
}
