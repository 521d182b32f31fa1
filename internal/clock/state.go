package clock

// State is the state of the clock.
type State int

// List of clock states.
//
// Idle is the state of a new clock. Stopped is terminal, a stopped clock
// can not be started again.
const (
	Idle State = iota
	Running
	Paused
	Stopped
)

var stateNames = map[State]string{
	Idle:    "idle",
	Running: "running",
	Paused:  "paused",
	Stopped: "stopped",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
