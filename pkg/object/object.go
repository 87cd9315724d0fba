// Package object implements the generic JSObject capability set:
// GetOwnProperty, DefineOwnProperty, Delete, GetOwnPropertyNames,
// prototype, and extensible. JSArray (pkg/jsarray) composes a
// PlainObject from this package rather than inheriting from it.
//
// This is a plain property table, not a shape-based or inline-cached
// object model: no shapes, no private fields, no accessor caching — just
// the map and ordering bookkeeping DefineOwnProperty's algorithm needs.
package object

import (
	"railgun/pkg/errors"
	"railgun/pkg/value"
)

// Descriptor mirrors an ECMAScript property descriptor. A nil attribute
// pointer means "absent" (not specified by the caller), distinct from a
// non-nil pointer to false — DefineOwnProperty's merge semantics (ES5
// 8.12.9) depend on telling "explicitly false" from "not mentioned".
type Descriptor struct {
	Value        value.Value
	HasValue     bool
	Writable     *bool
	Enumerable   *bool
	Configurable *bool
}

// IsDataDescriptor reports whether this descriptor carries a value slot
// (as opposed to being purely attribute-only, e.g. `{}` or
// `{enumerable:false}`).
func (d Descriptor) IsDataDescriptor() bool {
	return d.HasValue || d.Writable != nil
}

func boolOr(p *bool, dflt bool) bool {
	if p == nil {
		return dflt
	}
	return *p
}

// entry is one own-property slot.
type entry struct {
	desc  Descriptor
	order int
}

// PlainObject is the generic property table every other object kind
// (JSArray, RegExp, string-wrapper objects, ...) either composes or
// delegates its "other key" accesses to.
type PlainObject struct {
	props      map[string]*entry
	keyOrder   []string
	nextOrder  int
	prototype  value.Value
	extensible bool
}

func New(prototype value.Value) *PlainObject {
	return &PlainObject{
		props:      make(map[string]*entry),
		prototype:  prototype,
		extensible: true,
	}
}

func (o *PlainObject) MarkChildren(m value.Marker) {
	if o.prototype.IsCellBearing() {
		if c := o.prototype.AsCell(); c != nil {
			m.Mark(c)
		}
	}
	for _, e := range o.props {
		if e.desc.Value.IsCellBearing() {
			if c := e.desc.Value.AsCell(); c != nil {
				m.Mark(c)
			}
		}
	}
}

func (o *PlainObject) GetPrototype() value.Value   { return o.prototype }
func (o *PlainObject) SetPrototype(p value.Value)  { o.prototype = p }
func (o *PlainObject) IsExtensible() bool          { return o.extensible }
func (o *PlainObject) SetExtensible(e bool)        { o.extensible = e }

// GetOwnProperty returns the descriptor for name, if present.
func (o *PlainObject) GetOwnProperty(name string) (Descriptor, bool) {
	e, ok := o.props[name]
	if !ok {
		return Descriptor{}, false
	}
	return e.desc, true
}

// DefineOwnProperty implements the generic ES5 8.12.9 algorithm: creation,
// value/attribute merge, and the non-configurable / non-writable
// rejection rules. Descriptor has no getter/setter fields, so accessor
// properties are not represented: a descriptor with HasValue == false
// and Writable == nil is handled as a generic (attribute-only) one.
func (o *PlainObject) DefineOwnProperty(name string, desc Descriptor, throw bool) (bool, error) {
	existing, present := o.props[name]
	if !present {
		if !o.extensible {
			if throw {
				return false, errors.NewType("cannot add property %q, object is not extensible", name)
			}
			return false, nil
		}
		merged := Descriptor{
			Value:        desc.Value,
			HasValue:     desc.HasValue,
			Writable:     boolPtr(boolOr(desc.Writable, false)),
			Enumerable:   boolPtr(boolOr(desc.Enumerable, false)),
			Configurable: boolPtr(boolOr(desc.Configurable, false)),
		}
		o.props[name] = &entry{desc: merged, order: o.nextOrder}
		o.nextOrder++
		o.keyOrder = append(o.keyOrder, name)
		return true, nil
	}

	cur := existing.desc
	if !boolOr(cur.Configurable, false) {
		if desc.Configurable != nil && *desc.Configurable {
			return reject(throw, "cannot redefine non-configurable property %q", name)
		}
		if desc.Enumerable != nil && *desc.Enumerable != boolOr(cur.Enumerable, false) {
			return reject(throw, "cannot change enumerable attribute of non-configurable property %q", name)
		}
		if desc.IsDataDescriptor() {
			if !boolOr(cur.Writable, false) {
				if desc.Writable != nil && *desc.Writable {
					return reject(throw, "cannot make non-configurable non-writable property %q writable", name)
				}
				if desc.HasValue && !valuesSame(cur.Value, desc.Value) {
					return reject(throw, "cannot change value of non-writable property %q", name)
				}
			}
		}
	}

	merged := cur
	if desc.HasValue {
		merged.Value = desc.Value
		merged.HasValue = true
	}
	if desc.Writable != nil {
		merged.Writable = desc.Writable
	}
	if desc.Enumerable != nil {
		merged.Enumerable = desc.Enumerable
	}
	if desc.Configurable != nil {
		merged.Configurable = desc.Configurable
	}
	existing.desc = merged
	return true, nil
}

func reject(throw bool, format string, args ...interface{}) (bool, error) {
	if throw {
		return false, errors.NewType(format, args...)
	}
	return false, nil
}

func valuesSame(a, b value.Value) bool {
	return a.Is(b)
}

func boolPtr(b bool) *bool { return &b }

// Delete removes an own property. Returns false (or an error when throw)
// if the property is non-configurable.
func (o *PlainObject) Delete(name string, throw bool) (bool, error) {
	e, ok := o.props[name]
	if !ok {
		return true, nil
	}
	if !boolOr(e.desc.Configurable, false) {
		if throw {
			return false, errors.NewType("cannot delete non-configurable property %q", name)
		}
		return false, nil
	}
	delete(o.props, name)
	for i, k := range o.keyOrder {
		if k == name {
			o.keyOrder = append(o.keyOrder[:i], o.keyOrder[i+1:]...)
			break
		}
	}
	return true, nil
}

// OwnPropertyNames returns own keys in insertion order.
func (o *PlainObject) OwnPropertyNames() []string {
	out := make([]string, len(o.keyOrder))
	copy(out, o.keyOrder)
	return out
}

// Has reports whether name is an own property.
func (o *PlainObject) Has(name string) bool {
	_, ok := o.props[name]
	return ok
}

// SetOwn is a convenience helper for the common case: define (or
// overwrite, if the existing property is configurable) a plain
// writable/enumerable/configurable data property, non-throwing. Test
// setup uses this.
func (o *PlainObject) SetOwn(name string, v value.Value) {
	t := true
	_, _ = o.DefineOwnProperty(name, Descriptor{
		Value: v, HasValue: true,
		Writable: &t, Enumerable: &t, Configurable: &t,
	}, false)
}
