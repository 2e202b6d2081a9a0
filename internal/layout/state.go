package layout

import "github.com/ems-portal/ems-portal/internal/shared"

const (
	keyExpanded   = "sidebar_expanded"
	keySubNavOpen = "sidebar_subnav"
	keyActiveTab  = "sidebar_active"
)

// ViewState is the presentational sidebar state kept for one session.
type ViewState struct {
	Expanded   bool
	SubNavOpen bool
	ActiveTab  string
}

// DefaultViewState is the state of a freshly signed-in session.
func DefaultViewState() ViewState {
	return ViewState{Expanded: true}
}

// LoadViewState reads the sidebar state from sess, falling back to defaults.
func LoadViewState(sess *shared.Session) ViewState {
	state := DefaultViewState()
	if sess == nil {
		return state
	}
	if v := sess.Get(keyExpanded); v != "" {
		state.Expanded = v == "1"
	}
	state.SubNavOpen = sess.Get(keySubNavOpen) == "1"
	state.ActiveTab = sess.Get(keyActiveTab)
	return state
}

// Save writes the state back to sess.
func (s ViewState) Save(sess *shared.Session) {
	if sess == nil || sess.Destroyed() {
		return
	}
	sess.Set(keyExpanded, flag(s.Expanded))
	sess.Set(keySubNavOpen, flag(s.SubNavOpen))
	if s.ActiveTab == "" {
		sess.Delete(keyActiveTab)
		return
	}
	sess.Set(keyActiveTab, s.ActiveTab)
}

// ClearViewState removes every sidebar key from sess.
func ClearViewState(sess *shared.Session) {
	if sess == nil {
		return
	}
	sess.Delete(keyExpanded)
	sess.Delete(keySubNavOpen)
	sess.Delete(keyActiveTab)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
