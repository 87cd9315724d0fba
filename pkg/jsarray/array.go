// Package jsarray implements a dense-vector + sparse-map hybrid JSArray
// with ECMAScript length semantics, array-index property interception,
// and shrink-with-rollback.
package jsarray

import (
	"sort"
	"strconv"

	"railgun/pkg/errors"
	"railgun/pkg/object"
	"railgun/pkg/value"
)

// KMaxVectorSize bounds the dense vector; indices at or beyond it live in
// the sparse map instead.
const KMaxVectorSize = 10000

// Array is a JSArray: dense vector, optional sparse map, dense flag, and
// a length descriptor with independent writability.
type Array struct {
	vector []value.Value
	sparse map[uint32]value.Value
	dense  bool

	length          uint32
	lengthWritable  bool

	// generic holds every non-array-index, non-length property. Array
	// composes it rather than inheriting from it.
	generic *object.PlainObject
}

// New creates an empty, dense array with a writable length.
func New(prototype value.Value) *Array {
	return &Array{
		vector:         nil,
		dense:          true,
		length:         0,
		lengthWritable: true,
		generic:        object.New(prototype),
	}
}

func (a *Array) MarkChildren(m value.Marker) {
	for _, v := range a.vector {
		if v.IsCellBearing() {
			if c := v.AsCell(); c != nil {
				m.Mark(c)
			}
		}
	}
	for _, v := range a.sparse {
		if v.IsCellBearing() {
			if c := v.AsCell(); c != nil {
				m.Mark(c)
			}
		}
	}
	a.generic.MarkChildren(m)
}

// Length returns the current length value.
func (a *Array) Length() uint32 { return a.length }

// isArrayIndex classifies a property key for array-index interception: an
// integer string in [0, 2^32-1).
func isArrayIndex(key string) (uint32, bool) {
	if key == "" {
		return 0, false
	}
	if key == "0" {
		return 0, true
	}
	if key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	var n uint64
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint64(c-'0')
		if n >= 1<<32-1 {
			return 0, false
		}
	}
	return uint32(n), true
}

// GetOwnProperty implements GetOwnProperty for the three key classes:
// array-index, "length", and delegated-other.
func (a *Array) GetOwnProperty(key string) (object.Descriptor, bool) {
	if idx, ok := isArrayIndex(key); ok {
		if !a.dense {
			if d, ok := a.generic.GetOwnProperty(key); ok {
				return d, true
			}
		}
		if idx < KMaxVectorSize {
			if int(idx) < len(a.vector) {
				v := a.vector[idx]
				if !v.IsEmpty() {
					return dataDescriptor(v), true
				}
			}
			return object.Descriptor{}, false
		}
		if v, ok := a.sparse[idx]; ok {
			return dataDescriptor(v), true
		}
		return object.Descriptor{}, false
	}
	if key == "length" {
		return a.lengthDescriptor(), true
	}
	return a.generic.GetOwnProperty(key)
}

func dataDescriptor(v value.Value) object.Descriptor {
	w, e, c := true, true, true
	return object.Descriptor{Value: v, HasValue: true, Writable: &w, Enumerable: &e, Configurable: &c}
}

func (a *Array) lengthDescriptor() object.Descriptor {
	w := a.lengthWritable
	e, c := false, false
	return object.Descriptor{
		Value: value.Num(float64(a.length)), HasValue: true,
		Writable: &w, Enumerable: &e, Configurable: &c,
	}
}

// isDefaultDescriptor reports whether d is an ordinary, fully-open data
// descriptor: enumerable, configurable, writable, data (value may be
// absent).
func isDefaultDescriptor(d object.Descriptor) bool {
	if d.Enumerable == nil || !*d.Enumerable {
		return false
	}
	if d.Configurable == nil || !*d.Configurable {
		return false
	}
	if !d.IsDataDescriptor() {
		return false
	}
	return d.Writable != nil && *d.Writable
}

// isAbsentDescriptor reports whether every attribute in d is either
// unspecified or matches the "don't change anything" shape.
func isAbsentDescriptor(d object.Descriptor) bool {
	if d.Enumerable != nil && !*d.Enumerable {
		return false
	}
	if d.Configurable != nil && !*d.Configurable {
		return false
	}
	if !d.IsDataDescriptor() {
		return true
	}
	return d.Writable == nil || *d.Writable
}

// DefineOwnProperty implements ES5.1 15.4.5.1 step 4 for an array-index
// key, via defineArrayIndexProperty, or step 3 for "length" via
// defineLengthProperty, or step 5 (delegate) otherwise.
func (a *Array) DefineOwnProperty(key string, d object.Descriptor, throw bool) (bool, error) {
	if idx, ok := isArrayIndex(key); ok {
		return a.defineArrayIndexProperty(idx, d, throw)
	}
	if key == "length" {
		return a.defineLengthProperty(d, throw)
	}
	return a.generic.DefineOwnProperty(key, d, throw)
}

func (a *Array) defineArrayIndexProperty(idx uint32, d object.Descriptor, throw bool) (bool, error) {
	oldLen := a.length
	if idx >= oldLen && !a.lengthWritable {
		return reject(throw, "cannot add index %d, array length is not writable", idx)
	}

	defaultDesc := isDefaultDescriptor(d)
	absentDesc := isAbsentDescriptor(d)
	_, hasGeneric := a.generic.GetOwnProperty(keyFromIndex(idx))

	if (defaultDesc || (idx < oldLen && absentDesc)) && (a.dense || !hasGeneric) {
		if idx < KMaxVectorSize {
			if int(idx) < len(a.vector) {
				if a.vector[idx].IsEmpty() {
					if defaultDesc {
						if d.HasValue {
							a.vector[idx] = d.Value
						} else {
							a.vector[idx] = value.UndefinedValue
						}
						return a.fixUpLength(oldLen, idx), nil
					}
					// Object.defineProperty(a, "<idx>", {}) on a hole:
					// absent-descriptor, not default — intentional no-op
					// fallthrough to the generic slow path below.
				} else {
					if d.IsDataDescriptor() && d.HasValue {
						a.vector[idx] = d.Value
					}
					return a.fixUpLength(oldLen, idx), nil
				}
			} else if defaultDesc {
				a.growVector(int(idx) + 1)
				if d.HasValue {
					a.vector[idx] = d.Value
				} else {
					a.vector[idx] = value.UndefinedValue
				}
				return a.fixUpLength(oldLen, idx), nil
			}
		} else {
			if a.sparse == nil {
				if defaultDesc {
					a.sparse = make(map[uint32]value.Value)
					if d.HasValue {
						a.sparse[idx] = d.Value
					} else {
						a.sparse[idx] = value.UndefinedValue
					}
					return a.fixUpLength(oldLen, idx), nil
				}
			} else if _, ok := a.sparse[idx]; ok {
				if d.IsDataDescriptor() && d.HasValue {
					a.sparse[idx] = d.Value
				}
				return a.fixUpLength(oldLen, idx), nil
			} else if defaultDesc {
				a.sparse = ensureMap(a.sparse)
				if d.HasValue {
					a.sparse[idx] = d.Value
				} else {
					a.sparse[idx] = value.UndefinedValue
				}
				return a.fixUpLength(oldLen, idx), nil
			}
		}
	}

	// Slow path: delegate to the generic table.
	ok, err := a.generic.DefineOwnProperty(keyFromIndex(idx), d, false)
	if err != nil {
		return false, err
	}
	if !ok {
		return reject(throw, "define own property failed for index %d", idx)
	}
	a.dense = false
	if idx < KMaxVectorSize {
		if int(idx) < len(a.vector) {
			a.vector[idx] = value.EmptyValue
		}
	} else if a.sparse != nil {
		delete(a.sparse, idx)
	}
	return a.fixUpLength(oldLen, idx), nil
}

func ensureMap(m map[uint32]value.Value) map[uint32]value.Value {
	if m == nil {
		return make(map[uint32]value.Value)
	}
	return m
}

func (a *Array) growVector(n int) {
	for len(a.vector) < n {
		a.vector = append(a.vector, value.EmptyValue)
	}
}

func (a *Array) fixUpLength(oldLen, idx uint32) bool {
	if idx >= oldLen {
		a.length = idx + 1
	}
	return true
}

func reject(throw bool, format string, args ...interface{}) (bool, error) {
	if throw {
		return false, errors.NewType(format, args...)
	}
	return false, nil
}

func keyFromIndex(idx uint32) string {
	return strconv.FormatUint(uint64(idx), 10)
}

// defineLengthProperty implements ES5.1 15.4.5.1 step 3, including the
// length-shrink rollback semantics.
func (a *Array) defineLengthProperty(d object.Descriptor, throw bool) (bool, error) {
	if !d.HasValue {
		// No value: only attribute changes, value untouched.
		// "length" is always non-configurable and non-enumerable, so
		// per ES5.1 8.12.9 any attempt to change either attribute's
		// value is rejected, not just an attempt to make it configurable.
		if d.Configurable != nil && *d.Configurable {
			return reject(throw, "cannot make \"length\" configurable")
		}
		if d.Enumerable != nil && *d.Enumerable {
			return reject(throw, "cannot make \"length\" enumerable")
		}
		if d.Writable != nil && !*d.Writable {
			a.lengthWritable = false
		}
		return true, nil
	}

	newLenF := d.Value.ToFloat()
	newLen := doubleToUint32(newLenF)
	if float64(newLen) != newLenF {
		return false, errors.NewRange("invalid array length")
	}

	oldLen := a.length
	if newLen >= oldLen {
		a.length = newLen
		if d.Writable != nil && !*d.Writable {
			a.lengthWritable = false
		}
		return true, nil
	}

	if !a.lengthWritable {
		return reject(throw, "\"length\" is not writable")
	}

	newWritable := d.Writable == nil || *d.Writable

	a.length = newLen
	if err := a.truncate(oldLen, newLen, newWritable); err != nil {
		return false, err
	}
	if !newWritable {
		a.lengthWritable = false
	}
	return true, nil
}

// doubleToUint32 implements the ToUint32 abstract operation.
func doubleToUint32(f float64) uint32 {
	if f != f || f == 0 { // NaN or +/-0
		return 0
	}
	const two32 = 4294967296.0
	neg := f < 0
	if neg {
		f = -f
	}
	m := f - two32*float64(int64(f/two32))
	n := uint32(int64(m))
	if neg {
		return -n
	}
	return n
}

// truncate implements the shrink path of 15.4.5.1 step 3, including the
// rollback-on-non-configurable-index rule.
func (a *Array) truncate(oldLen, newLen uint32, newWritable bool) error {
	if a.dense {
		a.compactDense(newLen)
		return nil
	}

	if oldLen-newLen < (1 << 24) {
		i := oldLen
		for i > newLen {
			i--
			ok, err := a.Delete(i, false)
			if err != nil {
				return err
			}
			if !ok {
				a.length = i + 1
				if !newWritable {
					a.lengthWritable = true
				}
				return errors.NewType("array length shrink failed at non-configurable index %d", i)
			}
		}
		return nil
	}

	// Sparse bulk shrink: enumerate all own array-index keys, descend.
	indices := a.ownArrayIndexKeys()
	sort.Slice(indices, func(i, j int) bool { return indices[i] > indices[j] })
	for _, idx := range indices {
		if idx < newLen {
			break
		}
		ok, err := a.Delete(idx, false)
		if err != nil {
			return err
		}
		if !ok {
			a.length = idx + 1
			a.compactDense(idx + 1)
			if !newWritable {
				a.lengthWritable = true
			}
			return errors.NewType("array length shrink failed at non-configurable index %d", idx)
		}
	}
	a.compactDense(newLen)
	return nil
}

func (a *Array) ownArrayIndexKeys() []uint32 {
	var out []uint32
	for i, v := range a.vector {
		if !v.IsEmpty() {
			out = append(out, uint32(i))
		}
	}
	for idx := range a.sparse {
		out = append(out, idx)
	}
	for _, k := range a.generic.OwnPropertyNames() {
		if idx, ok := isArrayIndex(k); ok {
			out = append(out, idx)
		}
	}
	return out
}

func (a *Array) compactDense(newLen uint32) {
	if newLen > KMaxVectorSize {
		if a.sparse != nil {
			for idx := range a.sparse {
				if idx >= newLen {
					delete(a.sparse, idx)
				}
			}
			if len(a.sparse) == 0 {
				a.sparse = nil
			}
		}
		return
	}
	a.sparse = nil
	if uint32(len(a.vector)) > newLen {
		a.vector = a.vector[:newLen]
	}
}

// Delete removes an array-index key. Deleting a hole on a dense array is
// a no-op success, matching ECMAScript.
func (a *Array) Delete(idx uint32, throw bool) (bool, error) {
	if idx < KMaxVectorSize {
		if int(idx) < len(a.vector) {
			if !a.vector[idx].IsEmpty() {
				a.vector[idx] = value.EmptyValue
				return true, nil
			} else if a.dense {
				return true, nil
			}
		}
	} else {
		if a.sparse != nil {
			if _, ok := a.sparse[idx]; ok {
				delete(a.sparse, idx)
				return true, nil
			} else if a.dense {
				return true, nil
			}
		} else if a.dense {
			return true, nil
		}
	}
	return a.generic.Delete(keyFromIndex(idx), throw)
}

// DeleteKey deletes an arbitrary property key, routing array-index keys
// to Delete and "length" is always rejected (length is not configurable).
func (a *Array) DeleteKey(key string, throw bool) (bool, error) {
	if idx, ok := isArrayIndex(key); ok {
		return a.Delete(idx, throw)
	}
	if key == "length" {
		if throw {
			return false, errors.NewType("cannot delete \"length\"")
		}
		return false, nil
	}
	return a.generic.Delete(key, throw)
}

// Get is a convenience accessor returning the live value at idx, or
// (Undefined, false) for a hole/absent index. It goes through
// GetOwnProperty, so on a non-dense array an index held in the generic
// table is returned as well.
func (a *Array) Get(idx uint32) (value.Value, bool) {
	d, ok := a.GetOwnProperty(keyFromIndex(idx))
	if !ok {
		return value.UndefinedValue, false
	}
	return d.Value, true
}

// Set is the common a[i] = v fast-path entry point used outside property
// descriptor machinery (e.g. by cmd/railgun's demo and the tests).
func (a *Array) Set(idx uint32, v value.Value) error {
	w, e, c := true, true, true
	_, err := a.DefineOwnProperty(keyFromIndex(idx), object.Descriptor{
		Value: v, HasValue: true, Writable: &w, Enumerable: &e, Configurable: &c,
	}, true)
	return err
}

// OwnPropertyNames enumerates: length (if requested), then live array
// indices ascending (vector then sparse), then generic own names,
// de-duplicated.
func (a *Array) OwnPropertyNames(includeNonEnumerable bool) []string {
	seen := make(map[string]bool)
	var out []string
	if includeNonEnumerable {
		out = append(out, "length")
		seen["length"] = true
	}
	for i, v := range a.vector {
		if !v.IsEmpty() {
			k := keyFromIndex(uint32(i))
			if !seen[k] {
				out = append(out, k)
				seen[k] = true
			}
		}
	}
	sparseKeys := make([]uint32, 0, len(a.sparse))
	for idx := range a.sparse {
		sparseKeys = append(sparseKeys, idx)
	}
	sort.Slice(sparseKeys, func(i, j int) bool { return sparseKeys[i] < sparseKeys[j] })
	for _, idx := range sparseKeys {
		k := keyFromIndex(idx)
		if !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	for _, k := range a.generic.OwnPropertyNames() {
		if !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	return out
}

// IsDense reports whether the array still satisfies the dense invariant
// (every array-index property lives in vector/sparse storage).
func (a *Array) IsDense() bool { return a.dense }

// VectorLen exposes the current dense-vector length (test/debug use).
func (a *Array) VectorLen() int { return len(a.vector) }

// HasSparse reports whether a sparse map has been allocated.
func (a *Array) HasSparse() bool { return a.sparse != nil }
