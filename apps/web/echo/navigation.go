package echoweb

// NavItem is a link of the navigation bar.
type NavItem struct {
	Path  string
	Label string
	Icon  string
}

// NavLink is a NavItem as rendered for a request path.
type NavLink struct {
	NavItem
	Active bool
}

var (
	TeacherNavItems = []NavItem{
		{Path: "/", Label: "Dashboard", Icon: "bar-chart"},
		{Path: "/gradebook", Label: "Gradebook", Icon: "book-open"},
		{Path: "/attendance", Label: "Attendance", Icon: "calendar"},
		{Path: "/leave-requests", Label: "Leave Requests", Icon: "file-text"},
		{Path: "/reports", Label: "Reports", Icon: "bar-chart"},
	}
	StudentNavItems = []NavItem{
		{Path: "/", Label: "Dashboard", Icon: "bar-chart"},
		{Path: "/journal", Label: "Journal", Icon: "book-open"},
		{Path: "/grades", Label: "Grades", Icon: "graduation-cap"},
		{Path: "/attendance", Label: "Attendance", Icon: "calendar"},
		{Path: "/profile", Label: "Profile", Icon: "user"},
	}

	// navItems is computed once: the navigation does not depend on the role.
	navItems = MergeNavItems(TeacherNavItems, StudentNavItems)

	// paths on which the navigation bar is hidden
	navHiddenOn = map[string]bool{"/login": true, "/register": true}
)

// MergeNavItems keeps every item of first, then the items of second whose path is not taken yet.
func MergeNavItems(first, second []NavItem) []NavItem {
	seen := make(map[string]bool, len(first)+len(second))
	merged := make([]NavItem, 0, len(first)+len(second))
	for _, items := range [][]NavItem{first, second} {
		for _, item := range items {
			if seen[item.Path] {
				continue
			}
			seen[item.Path] = true
			merged = append(merged, item)
		}
	}
	return merged
}

// Navigation returns the navigation links for path. An item is active on exact path equality.
func Navigation(path string) []NavLink {
	links := make([]NavLink, 0, len(navItems))
	for _, item := range navItems {
		links = append(links, NavLink{NavItem: item, Active: item.Path == path})
	}
	return links
}

// ShowNavigation reports whether the navigation bar is rendered on path.
func ShowNavigation(path string) bool {
	return !navHiddenOn[path]
}
