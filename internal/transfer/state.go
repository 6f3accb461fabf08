package transfer

// State is the position of one transfer attempt
type State int

const (
	StateIdle State = iota
	StateTicketRequested
	StateTicketGranted
	StateTicketDenied
	StateTransferring
	StateRecorded
	StateOrphanedBlob
	StateSaved
	StateFallbackOpened
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:            "idle",
	StateTicketRequested: "ticket_requested",
	StateTicketGranted:   "ticket_granted",
	StateTicketDenied:    "ticket_denied",
	StateTransferring:    "transferring",
	StateRecorded:        "recorded",
	StateOrphanedBlob:    "orphaned_blob",
	StateSaved:           "saved",
	StateFallbackOpened:  "fallback_opened",
	StateFailed:          "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no transfer step follows s. A denied download
// ticket may still be followed by the fallback.
func (s State) Terminal() bool {
	switch s {
	case StateRecorded, StateOrphanedBlob, StateSaved,
		StateFallbackOpened, StateFailed, StateTicketDenied:
		return true
	}
	return false
}

// Observer is told about every state change of a transfer
type Observer func(from, to State)

// attempt tracks the state of a single Upload or Download call
type attempt struct {
	state    State
	observer Observer
}

func (a *attempt) to(next State) {
	prev := a.state
	a.state = next
	if a.observer != nil {
		a.observer(prev, next)
	}
}
