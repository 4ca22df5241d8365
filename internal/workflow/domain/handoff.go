package domain

// Handoff is the context shown to an actor picking up work on a request:
// the activity they currently own and the hand-off that gave it to them.
type Handoff struct {
	Current   *Activity
	Preceding *Activity
}

// LatestBefore returns the last activity in creation order whose sequence is
// below before. A before of zero means no bound.
func LatestBefore(activities []Activity, before int64) *Activity {
	for i := len(activities) - 1; i >= 0; i-- {
		if before == 0 || activities[i].Seq < before {
			a := activities[i]
			return &a
		}
	}
	return nil
}

// BuildHandoff combines the actor's open activities and the hand-offs
// addressed to them, both in creation order.
func BuildHandoff(open, handoffs []Activity) Handoff {
	var h Handoff
	h.Current = LatestBefore(open, 0)
	var bound int64
	if h.Current != nil {
		bound = h.Current.Seq
	}
	h.Preceding = LatestBefore(handoffs, bound)
	return h
}
