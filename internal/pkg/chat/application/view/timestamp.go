package view

import "time"

// LoadingLiteral is rendered while a server-assigned timestamp has not been
// acknowledged yet.
const LoadingLiteral = "Loading..."

// FormatSentAt renders an optional server timestamp for display: "Today" and
// "Yesterday" are matched by calendar day in now's location, older dates fall
// back to an absolute date. Pure function of (ts, now); callers take now at
// call time, so results must not be cached across midnight.
func FormatSentAt(ts *time.Time, now time.Time) string {
	if ts == nil {
		return LoadingLiteral
	}

	t := ts.In(now.Location())
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	if ty == ny && tm == nm && td == nd {
		return "Today"
	}

	yy, ym, yd := now.AddDate(0, 0, -1).Date()
	if ty == yy && tm == ym && td == yd {
		return "Yesterday"
	}

	return t.Format("Jan 2, 2006")
}
