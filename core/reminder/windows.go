package reminder

// Window is a tolerance band of hours-before/after a reminder's due instant
// during which a notification is eligible to fire.
type Window struct {
	Label       string
	From        float64 // inclusive
	To          float64
	ToExclusive bool
}

// Windows are evaluated in order; first match wins. The bands do not overlap.
var Windows = []Window{
	{Label: "3 Days Until Due", From: 71, To: 73},
	{Label: "2 Days Until Due", From: 47, To: 49},
	{Label: "24 Hours Until Due", From: 23, To: 25},
	{Label: "1 Hour Until Due!", From: 0.5, To: 1.5},
	{Label: "OVERDUE", From: -1, To: 0, ToExclusive: true},
}

func (w Window) contains(hours float64) bool {
	if hours < w.From {
		return false
	}
	if w.ToExclusive {
		return hours < w.To
	}
	return hours <= w.To
}

// ClassifyWindow maps hours-until-due to a notification window, if any.
func ClassifyWindow(hours float64) (Window, bool) {
	for _, w := range Windows {
		if w.contains(hours) {
			return w, true
		}
	}
	return Window{}, false
}
