package railgun

import "railgun/pkg/value"

// Manager owns the Stack buffer and the live LIFO frame chain, and
// exposes the frame lifecycle: NewGlobalFrame / NewCodeFrame /
// NewEvalFrame to gain a frame, Unwind to pop one, and Push to grow a
// frame's operand region.
type Manager struct {
	stack   *Stack
	current *Frame

	// safeSP is the conservative-scan boundary: every slot below it is
	// guaranteed initialized (locals zeroed to Undefined, never raw
	// garbage) and so safe for MarkChildren to walk. A frame under
	// construction bumps this only after its locals are stamped, so a
	// GC that runs mid-call never scans an uninitialized operand region.
	safeSP int
}

// NewManager builds a stack manager over a freshly allocated Stack.
func NewManager() *Manager {
	return &Manager{stack: NewStack(), safeSP: 1}
}

// Stack exposes the underlying value buffer (for tests and a future
// interpreter's direct slot access).
func (m *Manager) Stack() *Stack { return m.stack }

// Current returns the innermost live frame, or nil if nothing has been
// gained yet (or everything has been unwound).
func (m *Manager) Current() *Frame { return m.current }

// SafeStackPointer returns the current conservative-scan boundary.
func (m *Manager) SafeStackPointer() int { return m.safeSP }

// gainFrame is the shared construction primitive behind NewGlobalFrame /
// NewCodeFrame / NewEvalFrame: reserve this frame's locals+operand
// region, link it to the caller through Prev, and initialize its header. On
// stack overflow, nothing is mutated — the caller's current frame and
// the stack pointer are exactly as they were before the call.
func (m *Manager) gainFrame(code *Code, prev *Frame, callee, thisBinding value.Value, argc int, constructorCall bool) (*Frame, error) {
	// The frame's stack slots — its locals and the operand region a
	// running frame can grow into — are reserved in one atomic Gain call
	// (the header struct itself takes no stack slots),
	// before current_ is updated. This way a frame whose locals fit but
	// whose full size (locals + max operand depth) would overflow the
	// stack fails right here, leaving m.current and every existing
	// frame's contents untouched, instead of succeeding now and only
	// failing later on some deep Push.
	need := code.LocalCount + code.MaxStackDepth
	base, err := m.stack.Gain(need)
	if err != nil {
		return nil, err
	}
	f := &Frame{
		Code:            code,
		Prev:            prev,
		Callee:          callee,
		ThisBinding:     thisBinding,
		Argc:            argc,
		ConstructorCall: constructorCall,
		Ret:             value.UndefinedValue,
		LexicalEnv:      value.UndefinedValue,
		VariableEnv:     value.UndefinedValue,
		Localc:          code.LocalCount,
		base:            base,
		top:             base + code.LocalCount,
		limit:           base + need,
	}
	m.current = f
	m.SetSafeStackPointerForFrame(f)
	return f, nil
}

// NewGlobalFrame gains the outermost frame: Prev is nil, there is no
// caller to return into.
func (m *Manager) NewGlobalFrame(code *Code) (*Frame, error) {
	return m.gainFrame(code, nil, value.UndefinedValue, value.UndefinedValue, 0, false)
}

// NewCodeFrame gains a frame for an ordinary function call, chained
// above the caller's current frame.
func (m *Manager) NewCodeFrame(code *Code, callee, thisBinding value.Value, argc int, constructorCall bool) (*Frame, error) {
	return m.gainFrame(code, m.current, callee, thisBinding, argc, constructorCall)
}

// NewEvalFrame gains a frame for a direct eval: it shares the calling
// frame's lexical/variable environments rather than starting fresh
// ones.
func (m *Manager) NewEvalFrame(code *Code) (*Frame, error) {
	caller := m.current
	f, err := m.gainFrame(code, caller, value.UndefinedValue, value.UndefinedValue, 0, false)
	if err != nil {
		return nil, err
	}
	if caller != nil {
		f.LexicalEnv = caller.LexicalEnv
		f.VariableEnv = caller.VariableEnv
		f.ThisBinding = caller.ThisBinding
		f.DynamicEnvLevel = caller.DynamicEnvLevel + 1
	}
	return f, nil
}

// SetSafeStackPointerForFrame advances the conservative-scan boundary
// to just past this frame's locals. It must be called again once the
// frame's operand region grows (Push), so a mid-call GC never treats
// not-yet-written operand slots as live roots.
func (m *Manager) SetSafeStackPointerForFrame(f *Frame) {
	if f.top > m.safeSP {
		m.safeSP = f.top
	}
}

// Push grows the current frame's operand region by one slot, storing v,
// and advances the safe stack pointer to cover it. The slot comes out
// of the region already reserved for f by gainFrame, so this never
// calls Gain and never touches the stack pointer of any other frame;
// it only rejects growth once f has used up its full reserved size
// (locals + Code.MaxStackDepth).
func (m *Manager) Push(f *Frame, v value.Value) error {
	if f.top >= f.limit {
		return &StackOverflowError{Requested: 1, Available: 0}
	}
	m.stack.Set(f.top, v)
	f.top++
	m.SetSafeStackPointerForFrame(f)
	return nil
}

// Unwind pops f and every frame above it, releasing their stack space
// and restoring the caller below f as current. Returns f's Ret value.
func (m *Manager) Unwind(f *Frame) value.Value {
	ret := f.Ret
	m.stack.Release(f.base)
	m.current = f.Prev
	if m.current != nil {
		m.safeSP = m.current.top
	} else {
		m.safeSP = 1
	}
	return ret
}

// MarkChildren walks the live frame chain from Current down to the
// global frame, offering every cell-bearing slot within the safe
// stack pointer to the marker. It is stop-the-world: a full chain walk
// on every invocation, not an incremental scan.
func (m *Manager) MarkChildren(marker value.Marker) {
	for f := m.current; f != nil; f = f.Prev {
		markValue(marker, f.LexicalEnv)
		markValue(marker, f.VariableEnv)
		markValue(marker, f.Ret)
		markValue(marker, f.Callee)
		markValue(marker, f.ThisBinding)
		top := f.top
		if top > m.safeSP {
			top = m.safeSP
		}
		for i := f.base; i < top; i++ {
			markValue(marker, m.stack.At(i))
		}
	}
}

func markValue(marker value.Marker, v value.Value) {
	if v.IsCellBearing() {
		if c := v.AsCell(); c != nil {
			marker.Mark(c)
		}
	}
}
