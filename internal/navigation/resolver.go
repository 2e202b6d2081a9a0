package navigation

import "strings"

// Resolve reports which entry the current path corresponds to.
//
// Each destination is reduced to its final path segment, and an entry
// matches when that segment occurs anywhere in path. Entries are visited in
// order and a later match replaces an earlier one. Because containment is
// loose, a short segment embedded in a longer route can match too; callers
// relying on exact routes must not use this.
func Resolve(path string, entries []Entry) Active {
	var active Active
	for _, entry := range entries {
		switch e := entry.(type) {
		case Group:
			for _, child := range e.Children {
				if segmentMatches(path, child.Destination) {
					active = Active{Tab: child.Title, GroupOpen: true, Matched: true}
				}
			}
		case Leaf:
			if segmentMatches(path, e.Destination) {
				active.Tab = e.Title
				active.Matched = true
			}
		}
	}
	if strings.Contains(path, "login") {
		active.Tab = LogoutTab
		active.Matched = true
	}
	return active
}

func segmentMatches(path, destination string) bool {
	segment := lastSegment(destination)
	return segment != "" && strings.Contains(path, segment)
}

func lastSegment(destination string) string {
	if i := strings.LastIndexByte(destination, '/'); i >= 0 {
		return destination[i+1:]
	}
	return destination
}
