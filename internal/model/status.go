package model

// Status is the lifecycle state of a Request.
type Status string

// Request lifecycle states.  The happy path is linear
// (initial → taken → delivery → end); delivery may detour through
// "on hold", which either completes, or goes "returning" and re-opens
// the request at "initial" for a new sender.  "end" is terminal.
const (
	StatusInitial   Status = "initial"
	StatusTaken     Status = "taken"
	StatusDelivery  Status = "delivery"
	StatusOnHold    Status = "on hold"
	StatusReturning Status = "returning"
	StatusEnd       Status = "end"
)

// statusRank orders the states.  Unknown statuses are absent from the
// map and rank 0, which no transition rule accepts.
var statusRank = map[Status]int{
	StatusInitial:   1,
	StatusTaken:     2,
	StatusDelivery:  3,
	StatusOnHold:    4,
	StatusReturning: 5,
	StatusEnd:       6,
}

// IsValidTransition reports whether a request may move from old to
// new.  The rules are asymmetric: delivery can pause or finish, a
// paused request can resume returning or finish, and a returning
// request can only re-open.  Every other state only advances to the
// next rank.  Transitions involving an unknown status are always
// invalid.
func IsValidTransition(old, new Status) bool {
	or, nr := statusRank[old], statusRank[new]
	if or == 0 || nr == 0 {
		return false
	}
	switch old {
	case StatusDelivery:
		return new == StatusOnHold || new == StatusEnd
	case StatusOnHold:
		return new == StatusReturning || new == StatusEnd
	case StatusReturning:
		return new == StatusInitial
	default:
		return nr-or == 1
	}
}
