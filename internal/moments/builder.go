package moments

// BuildMoments turns raw segments into review-worthy moments. A segment is
// dropped entirely when any of its events is curated (manually favoriting a
// single shot signals the whole occasion has been handled) or when every
// event has already been reviewed. Output preserves segment order. Pure
// function, no I/O.
func BuildMoments(segments [][]Event, reviewed map[string]struct{}) []Moment {
	var out []Moment
	for _, segment := range segments {
		if m, ok := buildMoment(segment, reviewed); ok {
			out = append(out, m)
		}
	}
	return out
}

func buildMoment(segment []Event, reviewed map[string]struct{}) (Moment, bool) {
	var pending []Event
	for _, ev := range segment {
		if ev.Curated {
			return Moment{}, false
		}
		if _, seen := reviewed[ev.ID]; !seen {
			pending = append(pending, ev)
		}
	}
	if len(pending) == 0 {
		return Moment{}, false
	}

	m := Moment{
		ID:            momentID(segment),
		Pending:       pending,
		TotalInWindow: len(segment),
		Anchor:        segment[0].Timestamp,
	}
	for i := range segment {
		if segment[i].HasLoc {
			m.RepresentativeLocated = &segment[i]
			break
		}
	}
	return m, true
}
