// Package layout implements the dashboard shell around every signed-in page:
// the collapsible sidebar, its transfers sub-navigation and the transient
// loading indicator raised by sidebar selections.
package layout

import "github.com/ems-portal/ems-portal/internal/navigation"

// Shell is the sidebar of one session, rebuilt per request from the
// session's ViewState and the role's navigation entries.
type Shell struct {
	entries []navigation.Entry
	state   ViewState
	loader  *Loader
}

// NewShell assembles a Shell. A nil loader disables the loading indicator.
func NewShell(entries []navigation.Entry, state ViewState, loader *Loader) *Shell {
	return &Shell{entries: entries, state: state, loader: loader}
}

// Entries returns the navigation entries shown in the sidebar.
func (s *Shell) Entries() []navigation.Entry {
	return s.entries
}

// State returns the current view state.
func (s *Shell) State() ViewState {
	return s.state
}

// Sync applies the resolver result for path. Without a match the previous
// active tab is kept.
func (s *Shell) Sync(path string) {
	active := navigation.Resolve(path, s.entries)
	if !active.Matched {
		return
	}
	s.state.ActiveTab = active.Tab
	if active.GroupOpen {
		s.state.SubNavOpen = true
	}
}

// ToggleExpanded flips between the expanded and collapsed sidebar.
func (s *Shell) ToggleExpanded() {
	s.state.Expanded = !s.state.Expanded
}

// SelectLeaf marks the leaf titled title active and raises the loading
// indicator. It reports false when no such leaf exists.
func (s *Shell) SelectLeaf(title string) bool {
	if _, ok := navigation.FindLeaf(s.entries, title); !ok {
		return false
	}
	s.state.ActiveTab = title
	if s.loader != nil {
		s.loader.Start()
	}
	return true
}

// SelectGroup marks the group header active and toggles its sub-navigation.
func (s *Shell) SelectGroup(title string) bool {
	if _, ok := navigation.FindGroup(s.entries, title); !ok {
		return false
	}
	s.state.ActiveTab = title
	s.state.SubNavOpen = !s.state.SubNavOpen
	return true
}

// Loading reports whether the loading indicator is raised.
func (s *Shell) Loading() bool {
	return s.loader != nil && s.loader.Loading()
}

// IsActive reports whether title is the active tab.
func (s *Shell) IsActive(title string) bool {
	return title != "" && s.state.ActiveTab == title
}
