package sessions

// State is the outcome of a session check. A guard starts Pending and moves
// to exactly one of the other two.
type State int

const (
	Pending State = iota
	Authorized
	Unauthorized
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	}
	return "unknown"
}
