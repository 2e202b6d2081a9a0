package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ems-portal/ems-portal/internal/navigation"
	"github.com/ems-portal/ems-portal/internal/shared"
)

func schoolAdminShell(loader *Loader) *Shell {
	id := 101
	return NewShell(navigation.ForRole(navigation.RoleSchoolAdmin, &id), DefaultViewState(), loader)
}

func TestShellDefaults(t *testing.T) {
	shell := schoolAdminShell(nil)
	state := shell.State()
	assert.True(t, state.Expanded)
	assert.False(t, state.SubNavOpen)
	assert.Empty(t, state.ActiveTab)
	assert.False(t, shell.Loading())
}

func TestShellToggleExpanded(t *testing.T) {
	shell := schoolAdminShell(nil)
	shell.ToggleExpanded()
	assert.False(t, shell.State().Expanded)
	shell.ToggleExpanded()
	assert.True(t, shell.State().Expanded)
}

func TestShellSelectGroupToggles(t *testing.T) {
	shell := schoolAdminShell(nil)
	shell.Sync("/home/dashboard")
	require.Equal(t, "Dashboard", shell.State().ActiveTab)

	require.True(t, shell.SelectGroup("Transfers"))
	assert.True(t, shell.State().SubNavOpen)
	assert.Equal(t, "Transfers", shell.State().ActiveTab)

	require.True(t, shell.SelectGroup("Transfers"))
	assert.False(t, shell.State().SubNavOpen)

	for _, title := range []string{"Dashboard", "Employees", "Attendance", "Logs", "Outgoing Transfers"} {
		assert.False(t, shell.IsActive(title), title)
	}
	assert.False(t, shell.SelectGroup("Dashboard"))
}

func TestShellSyncForcesGroupOpen(t *testing.T) {
	shell := schoolAdminShell(nil)
	shell.Sync("/home/transfers/incoming")
	assert.Equal(t, "Incoming Transfers", shell.State().ActiveTab)
	assert.True(t, shell.State().SubNavOpen)
}

func TestShellSyncKeepsPreviousTabWithoutMatch(t *testing.T) {
	shell := schoolAdminShell(nil)
	shell.Sync("/home/logs")
	shell.Sync("/home/unknown")
	assert.Equal(t, "Logs", shell.State().ActiveTab)
}

func TestShellSelectLeafStartsLoader(t *testing.T) {
	loader := NewLoader(time.Hour)
	defer loader.Stop()
	shell := schoolAdminShell(loader)

	assert.False(t, shell.SelectLeaf("Nope"))
	assert.False(t, shell.Loading())

	require.True(t, shell.SelectLeaf("Outgoing Transfers"))
	assert.True(t, shell.Loading())
	assert.True(t, shell.IsActive("Outgoing Transfers"))
}

func TestShellView(t *testing.T) {
	shell := schoolAdminShell(NewLoader(time.Hour))
	defer shell.loader.Stop()
	shell.Sync("/home/transfers/outgoing")

	view := shell.View()
	assert.True(t, view.Expanded)
	assert.True(t, view.SubNavOpen)
	assert.Equal(t, int64(3600000), view.LoadingMS)
	require.Len(t, view.Items, 6)

	group := view.Items[3]
	assert.True(t, group.IsGroup)
	assert.Equal(t, "transfers", group.Slug)
	require.Len(t, group.Children, 2)
	assert.True(t, group.Children[0].Active)
	assert.Equal(t, "/home/transfers/outgoing?tab=Outgoing+Transfers", group.Children[0].Href)
	assert.Equal(t, "/home/school-status/101?tab=Employees", view.Items[1].Href)

	shell.Sync("/login")
	assert.True(t, shell.View().LogoutActive)
}

func TestViewStatePersistence(t *testing.T) {
	sess := shared.NewSession()
	assert.Equal(t, DefaultViewState(), LoadViewState(sess))

	state := ViewState{Expanded: false, SubNavOpen: true, ActiveTab: "Logs"}
	state.Save(sess)
	assert.Equal(t, state, LoadViewState(sess))

	ClearViewState(sess)
	assert.Equal(t, DefaultViewState(), LoadViewState(sess))
}

func TestGroupBySlug(t *testing.T) {
	entries := navigation.ForRole(navigation.RoleSchoolAdmin, nil)
	group, ok := GroupBySlug(entries, "transfers")
	require.True(t, ok)
	assert.Equal(t, "Transfers", group.Title)

	_, ok = GroupBySlug(navigation.ForRole(navigation.RoleAdmin, nil), "transfers")
	assert.False(t, ok)
}
