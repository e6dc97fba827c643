package orm

// State tracks whether an entity has unsaved changes.
//
//	New   -> Clean   on save
//	Clean -> Dirty   on a mutation that changes a value
//	Dirty -> Clean   on save
//	any   -> New     on delete
//
// A successful load yields Clean; mutating a New entity keeps it New.
type State int

const (
	StateNew State = iota
	StateClean
	StateDirty
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	default:
		return "unknown"
	}
}

func (s State) touched() State {
	if s == StateClean {
		return StateDirty
	}

	return s
}
