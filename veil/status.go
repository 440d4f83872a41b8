package veil

import (
	"fmt"
	"strings"
)

// AdapterStatus summarizes one adapter.
type AdapterStatus struct {
	ID         string
	Name       string
	Version    string
	Active     bool
	Components int
	Ready      int
	Disabled   int
}

// Status is a point-in-time dump of the runtime.
type Status struct {
	Adapters   []AdapterStatus
	Components int
	Ready      int
	Menus      int
	Pending    int
	Handlers   int
	Visible    bool
	Warnings   []string
}

// Status collects the current state.
func (r *Runtime) Status() Status {
	s := Status{
		Components: r.orch.Len(),
		Menus:      r.menus.Len(),
		Pending:    r.bridge.Pending(),
		Handlers:   r.bridge.Handlers(),
		Visible:    r.orch.Visible(),
	}
	for _, w := range r.warnings {
		s.Warnings = append(s.Warnings, w.Error())
	}
	for _, c := range r.orch.Components() {
		if c.Ready() {
			s.Ready++
		}
	}
	if r.adapters == nil {
		return s
	}
	for _, a := range r.adapters.All() {
		as := AdapterStatus{
			ID:      a.ID(),
			Name:    a.DisplayName(),
			Version: a.Manifest().ModVersion,
			Active:  a.Active(),
		}
		for _, c := range a.Components() {
			as.Components++
			if c.Ready() {
				as.Ready++
			}
			if !c.Enabled() {
				as.Disabled++
			}
		}
		s.Adapters = append(s.Adapters, as)
	}
	return s
}

// String renders the status as plain lines for overlays and logs.
func (s Status) String() string {
	var b strings.Builder
	visible := "hidden"
	if s.Visible {
		visible = "visible"
	}
	fmt.Fprintf(&b, "HUD %s  components %d/%d ready  menus %d  pending %d  handlers %d\n",
		visible, s.Ready, s.Components, s.Menus, s.Pending, s.Handlers)
	for _, a := range s.Adapters {
		name := a.Name
		if a.Version != "" {
			name += " " + a.Version
		}
		fmt.Fprintf(&b, "  %-20s %-24s %d/%d ready", a.ID, name, a.Ready, a.Components)
		if a.Disabled > 0 {
			fmt.Fprintf(&b, ", %d disabled", a.Disabled)
		}
		b.WriteByte('\n')
	}
	for _, w := range s.Warnings {
		fmt.Fprintf(&b, "  ! %s\n", w)
	}
	return b.String()
}
