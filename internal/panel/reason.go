package panel

// StateChangeReason tags why a panel was shown or closed.
// It is carried through to panels and observers and never changes how
// the manager handles a close: a close is a preemption hand-off only when
// the manager itself asked the active panel to make way.
type StateChangeReason int

const (
	ReasonUnknown StateChangeReason = iota
	ReasonReset
	ReasonBackPress
	ReasonCloseButton
	ReasonKeyPress
	ReasonClick
	ReasonSuppress
	ReasonUnsuppress
	ReasonRemote
	ReasonShutdown
)

var reasonNames = map[StateChangeReason]string{
	ReasonUnknown:     "unknown",
	ReasonReset:       "reset",
	ReasonBackPress:   "back_press",
	ReasonCloseButton: "close_button",
	ReasonKeyPress:    "key_press",
	ReasonClick:       "click",
	ReasonSuppress:    "suppress",
	ReasonUnsuppress:  "unsuppress",
	ReasonRemote:      "remote",
	ReasonShutdown:    "shutdown",
}

func (r StateChangeReason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return "unknown"
}

// ParseReason maps a reason name back to its value.
// Unrecognized names map to ReasonUnknown.
func ParseReason(s string) StateChangeReason {
	for r, name := range reasonNames {
		if name == s {
			return r
		}
	}
	return ReasonUnknown
}
