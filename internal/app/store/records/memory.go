// internal/app/store/records/memory.go
package records

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process Store with the same observable semantics as
// Mongo for equality filters, sorting, paging and unique fields. Documents
// round-trip through BSON so tags, omitempty and time truncation behave as
// they do against a real server.
type Memory struct {
	mu     sync.RWMutex
	colls  map[string][]bson.M
	unique map[string][]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		colls:  make(map[string][]bson.M),
		unique: make(map[string][]string),
	}
}

// EnsureUnique declares field as unique within coll, mirroring a unique
// index. Documents missing the field are not constrained.
func (m *Memory) EnsureUnique(coll, field string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.unique[coll] {
		if f == field {
			return
		}
	}
	m.unique[coll] = append(m.unique[coll], field)
}

func (m *Memory) Insert(ctx context.Context, coll string, doc any) (primitive.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return primitive.NilObjectID, err
	}
	d, err := toDoc(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}

	id, ok := d["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		if _, present := d["_id"]; present && !ok {
			return primitive.NilObjectID, fmt.Errorf("records: %s: _id has type %T, want ObjectID", coll, d["_id"])
		}
		id = primitive.NewObjectID()
		d["_id"] = id
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(coll, id) >= 0 {
		return primitive.NilObjectID, ErrDuplicate
	}
	if m.violatesUnique(coll, d, -1) {
		return primitive.NilObjectID, ErrDuplicate
	}
	m.colls[coll] = append(m.colls[coll], d)
	return id, nil
}

func (m *Memory) FindOne(ctx context.Context, coll string, f Filter, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q, err := normalizeFilter(f)
	if err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.colls[coll] {
		if matches(d, q) {
			return fromDoc(d, out)
		}
	}
	return ErrNotFound
}

func (m *Memory) Count(ctx context.Context, coll string, f Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	q, err := normalizeFilter(f)
	if err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, d := range m.colls[coll] {
		if matches(d, q) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) Update(ctx context.Context, coll string, id primitive.ObjectID, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d, err := toDoc(doc)
	if err != nil {
		return err
	}
	if cur, ok := d["_id"].(primitive.ObjectID); ok && !cur.IsZero() && cur != id {
		return fmt.Errorf("records: %s: replacement _id %s does not match %s", coll, cur.Hex(), id.Hex())
	}
	d["_id"] = id

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(coll, id)
	if i < 0 {
		return ErrNotFound
	}
	if m.violatesUnique(coll, d, i) {
		return ErrDuplicate
	}
	m.colls[coll][i] = d
	return nil
}

func (m *Memory) Delete(ctx context.Context, coll string, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(coll, id)
	if i < 0 {
		return ErrNotFound
	}
	docs := m.colls[coll]
	m.colls[coll] = append(docs[:i:i], docs[i+1:]...)
	return nil
}

func (m *Memory) List(ctx context.Context, coll string, f Filter, opts ListOptions, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("records: List out must be a pointer to a slice, got %T", out)
	}
	q, err := normalizeFilter(f)
	if err != nil {
		return err
	}

	m.mu.RLock()
	var hits []bson.M
	for _, d := range m.colls[coll] {
		if matches(d, q) {
			hits = append(hits, d)
		}
	}
	m.mu.RUnlock()

	if opts.SortField != "" {
		sort.SliceStable(hits, func(i, j int) bool {
			c := compareValues(hits[i][opts.SortField], hits[j][opts.SortField])
			if c == 0 {
				c = compareValues(hits[i]["_id"], hits[j]["_id"])
			}
			if opts.SortDesc {
				return c > 0
			}
			return c < 0
		})
	}
	if opts.Skip > 0 {
		if opts.Skip >= int64(len(hits)) {
			hits = nil
		} else {
			hits = hits[opts.Skip:]
		}
	}
	if opts.Limit > 0 && int64(len(hits)) > opts.Limit {
		hits = hits[:opts.Limit]
	}

	slice := rv.Elem()
	elemType := slice.Type().Elem()
	result := reflect.MakeSlice(slice.Type(), 0, len(hits))
	for _, d := range hits {
		ptr := reflect.New(elemType)
		if err := fromDoc(d, ptr.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, ptr.Elem())
	}
	slice.Set(result)
	return nil
}

// indexOf returns the position of id in coll, or -1. Caller holds the lock.
func (m *Memory) indexOf(coll string, id primitive.ObjectID) int {
	for i, d := range m.colls[coll] {
		if d["_id"] == id {
			return i
		}
	}
	return -1
}

// violatesUnique reports whether d collides with another document on a
// unique field. skip is the position of d itself on update, or -1.
func (m *Memory) violatesUnique(coll string, d bson.M, skip int) bool {
	for _, field := range m.unique[coll] {
		v, ok := d[field]
		if !ok {
			continue
		}
		for i, other := range m.colls[coll] {
			if i == skip {
				continue
			}
			if ov, ok := other[field]; ok && reflect.DeepEqual(ov, v) {
				return true
			}
		}
	}
	return false
}

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var d bson.M
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return d, nil
}

func fromDoc(d bson.M, out any) error {
	raw, err := bson.Marshal(d)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// normalizeFilter passes f through the BSON codec so its values carry the
// same Go types as stored documents (int -> int32, time.Time -> DateTime).
func normalizeFilter(f Filter) (bson.M, error) {
	if len(f) == 0 {
		return nil, nil
	}
	for k := range f {
		if strings.HasPrefix(k, "$") {
			return nil, errUnsupportedFilter
		}
	}
	return toDoc(bson.M(f))
}

func matches(d, q bson.M) bool {
	for k, want := range q {
		got, ok := d[k]
		if !ok {
			if want == nil {
				continue
			}
			return false
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// compareValues orders the scalar BSON types that show up in sort keys.
// Mismatched or unknown types compare equal.
func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case int32:
		if bv, ok := b.(int32); ok {
			return cmpOrdered(av, bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return cmpOrdered(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return cmpOrdered(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok && av != bv {
			if av {
				return 1
			}
			return -1
		}
	case primitive.DateTime:
		if bv, ok := b.(primitive.DateTime); ok {
			return cmpOrdered(av, bv)
		}
	case primitive.ObjectID:
		if bv, ok := b.(primitive.ObjectID); ok {
			return bytes.Compare(av[:], bv[:])
		}
	}
	return 0
}

func cmpOrdered[T int32 | int64 | float64 | primitive.DateTime](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
