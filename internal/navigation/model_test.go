package navigation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func titles(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.EntryTitle())
	}
	return out
}

func TestForRoleKnownRoles(t *testing.T) {
	cases := map[Role][]string{
		RoleAdmin:       {"Dashboard", "School Status", "Transfers", "Staff statement", "Logs"},
		RoleSchoolAdmin: {"Dashboard", "Employees", "Attendance", "Transfers", "Staff statement", "Logs"},
		RoleStaff:       {"Dashboard"},
	}
	for role, want := range cases {
		t.Run(string(role), func(t *testing.T) {
			got := ForRole(role, intPtr(101))
			if diff := cmp.Diff(want, titles(got)); diff != "" {
				t.Fatalf("titles mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(got, ForRole(role, intPtr(101))); diff != "" {
				t.Fatalf("ForRole not deterministic:\n%s", diff)
			}
		})
	}
}

func TestForRoleUnknownRoleIsEmpty(t *testing.T) {
	for _, role := range []Role{"", "principal", "ADMIN"} {
		got := ForRole(role, nil)
		require.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestSchoolAdminTransfersGroup(t *testing.T) {
	entries := ForRole(RoleSchoolAdmin, intPtr(101))
	groups := 0
	for _, e := range entries {
		g, ok := e.(Group)
		if !ok {
			continue
		}
		groups++
		assert.Equal(t, "Transfers", g.Title)
		want := []Leaf{
			{Title: "Outgoing Transfers", Destination: PathTransfersOut, Icon: IconUpload},
			{Title: "Incoming Transfers", Destination: PathTransfersIn, Icon: IconDownload},
		}
		if diff := cmp.Diff(want, g.Children); diff != "" {
			t.Fatalf("children mismatch (-want +got):\n%s", diff)
		}
	}
	assert.Equal(t, 1, groups)

	for _, role := range []Role{RoleAdmin, RoleStaff} {
		for _, e := range ForRole(role, nil) {
			_, isLeaf := e.(Leaf)
			assert.True(t, isLeaf, "%s: %s should be a leaf", role, e.EntryTitle())
		}
	}
}

func TestEmployeesDestinationUsesSchoolID(t *testing.T) {
	leaf, ok := FindLeaf(ForRole(RoleSchoolAdmin, ParseSchoolID("101")), "Employees")
	require.True(t, ok)
	assert.Equal(t, "/home/school-status/101", leaf.Destination)

	for _, raw := range []string{"", "abc", "10x"} {
		assert.Nil(t, ParseSchoolID(raw), raw)
		leaf, ok := FindLeaf(ForRole(RoleSchoolAdmin, ParseSchoolID(raw)), "Employees")
		require.True(t, ok)
		assert.Equal(t, "/home/school-status/", leaf.Destination)
	}
}

func TestFindHelpers(t *testing.T) {
	entries := ForRole(RoleSchoolAdmin, nil)

	leaf, ok := FindLeaf(entries, "Incoming Transfers")
	require.True(t, ok)
	assert.Equal(t, PathTransfersIn, leaf.Destination)

	_, ok = FindLeaf(entries, "Transfers")
	assert.False(t, ok, "group headers are not leaves")

	group, ok := FindGroup(entries, "Transfers")
	require.True(t, ok)
	assert.Len(t, group.Children, 2)

	_, ok = FindGroup(ForRole(RoleAdmin, nil), "Transfers")
	assert.False(t, ok)
}

func TestRoleHelpers(t *testing.T) {
	for _, r := range Roles() {
		assert.True(t, r.Valid())
	}
	assert.False(t, Role("guest").Valid())
	assert.Equal(t, "School Admin", RoleSchoolAdmin.Label())
	assert.Equal(t, "guest", Role("guest").Label())
}
