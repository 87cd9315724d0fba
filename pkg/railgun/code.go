package railgun

// Code is the minimal per-function metadata a Frame needs to size
// itself inside the stack: how many local slots it reserves and how
// deep its operand region can grow. A full opcode/constant-pool
// bytecode container belongs to a compiler, which is out of scope
// here — Frame only needs the two counts that govern its own layout.
type Code struct {
	Name       string
	LocalCount int
	// MaxStackDepth bounds the operand region reserved alongside the
	// locals; a real compiler would compute this per function from its
	// instruction stream's maximum operand-stack height.
	MaxStackDepth int
}

// NewCode constructs a Code descriptor. Callers outside this package's
// tests are expected to come from a future compiler; for now this is
// the entry point test code and cmd/railgun's demo use directly.
func NewCode(name string, localCount, maxStackDepth int) *Code {
	return &Code{Name: name, LocalCount: localCount, MaxStackDepth: maxStackDepth}
}
