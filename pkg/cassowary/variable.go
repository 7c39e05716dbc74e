package cassowary

// Variable is an unknown quantity to be determined by a [Solver], such as
// "the width of pane 3".
//
// Variables are compared by identity, not by name: two variables created with
// the same name are distinct unknowns. The name exists only for debugging and
// visualization output.
type Variable struct {
	name string
}

// NewVariable creates a fresh variable. The name is a debug label and may be
// empty; it does not affect identity.
func NewVariable(name string) *Variable {
	return &Variable{name: name}
}

// Name returns the debug label given at creation.
func (v *Variable) Name() string { return v.name }

// String returns the debug label, or "?" when the variable is unnamed.
func (v *Variable) String() string {
	if v.name == "" {
		return "?"
	}
	return v.name
}
