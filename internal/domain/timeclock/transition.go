package timeclock

// legalTransitions maps a candidate event kind to the set of last-event kinds
// it may legally follow. A nil last event is encoded as the empty EventKind.
var legalTransitions = map[EventKind][]EventKind{
	EventClockIn:    {"", EventClockOut},
	EventBreakStart: {EventClockIn, EventBreakEnd},
	EventBreakEnd:   {EventBreakStart},
	EventClockOut:   {EventClockIn, EventBreakEnd},
}

// ValidateTransition checks that candidate is a legal continuation of the
// user's event log. last is nil when the user has no prior event in the
// validation window. On rejection the returned error carries the user's
// current derived status so callers can render a precise message.
func ValidateTransition(last *EventKind, candidate EventKind) error {
	prior := EventKind("")
	if last != nil {
		prior = *last
	}

	for _, allowed := range legalTransitions[candidate] {
		if prior == allowed {
			return nil
		}
	}

	return &InvalidTransitionError{
		Current:   StatusAfter(last),
		Candidate: candidate,
	}
}
