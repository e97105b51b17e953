package listing

import "strconv"

// ControlKind identifies an entry of the pagination bar.
type ControlKind int

const (
	ControlPrev ControlKind = iota
	ControlNumber
	ControlEllipsis
	ControlNext
)

// Control is one entry of the pagination bar. Page is the page the
// control navigates to; it is zero for an ellipsis.
type Control struct {
	Kind     ControlKind
	Page     int
	Label    string
	Active   bool
	Disabled bool
}

// Controls builds the pagination bar for page out of total. A single page
// or none produces no controls.
func Controls(page, total int) []Control {
	if total <= 1 {
		return nil
	}
	page = Clamp(page, total)

	out := []Control{{
		Kind:     ControlPrev,
		Page:     page - 1,
		Label:    "Previous",
		Disabled: page == 1,
	}}

	for i := 1; i <= total; i++ {
		switch {
		case i == 1 || i == total || (i >= page-1 && i <= page+1):
			out = append(out, Control{
				Kind:   ControlNumber,
				Page:   i,
				Label:  strconv.Itoa(i),
				Active: i == page,
			})
		case i == page-2 || i == page+2:
			out = append(out, Control{Kind: ControlEllipsis, Label: "...", Disabled: true})
		}
	}

	return append(out, Control{
		Kind:     ControlNext,
		Page:     page + 1,
		Label:    "Next",
		Disabled: page == total,
	})
}

// Navigable reports whether clicking c changes the page away from current.
func (c Control) Navigable(current int) bool {
	return !c.Disabled && c.Kind != ControlEllipsis && c.Page >= 1 && c.Page != current
}
