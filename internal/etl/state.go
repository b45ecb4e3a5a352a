package etl

// State is the step a pass is currently executing.
type State int

const (
	StateIdle State = iota
	StateDetecting
	StateExpanding
	StateFetching
	StateTransforming
	StateLoading
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDetecting:
		return "detecting"
	case StateExpanding:
		return "expanding"
	case StateFetching:
		return "fetching"
	case StateTransforming:
		return "transforming"
	case StateLoading:
		return "loading"
	case StateCommitting:
		return "committing"
	default:
		return "unknown"
	}
}
