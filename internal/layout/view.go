package layout

import (
	"net/url"
	"strings"

	"github.com/ems-portal/ems-portal/internal/navigation"
)

// SelectParam is the query parameter sidebar links carry to announce a selection.
const SelectParam = "tab"

// ItemView is a sidebar entry prepared for the template.
type ItemView struct {
	Title    string
	Href     string
	Icon     navigation.Icon
	Slug     string
	Active   bool
	IsGroup  bool
	Children []ItemView
}

// SidebarView is everything the layout template needs to draw the shell.
type SidebarView struct {
	Expanded     bool
	SubNavOpen   bool
	Loading      bool
	LoadingMS    int64
	LogoutActive bool
	Items        []ItemView
}

// View renders the shell into a template friendly structure.
func (s *Shell) View() SidebarView {
	view := SidebarView{
		Expanded:     s.state.Expanded,
		SubNavOpen:   s.state.SubNavOpen,
		Loading:      s.Loading(),
		LogoutActive: s.state.ActiveTab == navigation.LogoutTab,
		Items:        make([]ItemView, 0, len(s.entries)),
	}
	if s.loader != nil {
		view.LoadingMS = s.loader.Delay().Milliseconds()
	}
	for _, entry := range s.entries {
		switch e := entry.(type) {
		case navigation.Leaf:
			view.Items = append(view.Items, s.leafView(e))
		case navigation.Group:
			item := ItemView{
				Title:   e.Title,
				Icon:    e.Icon,
				Slug:    Slug(e.Title),
				Active:  s.IsActive(e.Title),
				IsGroup: true,
			}
			for _, child := range e.Children {
				item.Children = append(item.Children, s.leafView(child))
			}
			view.Items = append(view.Items, item)
		}
	}
	return view
}

func (s *Shell) leafView(l navigation.Leaf) ItemView {
	return ItemView{
		Title:  l.Title,
		Href:   l.Destination + "?" + url.Values{SelectParam: {l.Title}}.Encode(),
		Icon:   l.Icon,
		Slug:   Slug(l.Title),
		Active: s.IsActive(l.Title),
	}
}

// Slug turns an entry title into a URL segment.
func Slug(title string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "-")
}

// GroupBySlug finds the group whose Slug matches slug.
func GroupBySlug(entries []navigation.Entry, slug string) (navigation.Group, bool) {
	for _, entry := range entries {
		if g, ok := entry.(navigation.Group); ok && Slug(g.Title) == slug {
			return g, true
		}
	}
	return navigation.Group{}, false
}
