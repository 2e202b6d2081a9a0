package rbac

import (
	"sort"
	"strings"

	"github.com/ems-portal/ems-portal/internal/navigation"
)

// Service answers permission questions from the static role table.
type Service struct {
	grants map[navigation.Role]map[string]struct{}
}

// NewService constructs a Service over the built-in role table.
func NewService() *Service {
	s := &Service{grants: make(map[navigation.Role]map[string]struct{}, len(grants))}
	for role, perms := range grants {
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		s.grants[role] = set
	}
	return s
}

// EffectivePermissions lists the permissions of role in sorted order. An
// unknown role has none.
func (s *Service) EffectivePermissions(role navigation.Role) []string {
	set := s.grants[role]
	perms := make([]string, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	return perms
}

// HasAny reports whether role holds at least one of perms. An empty perms
// list always passes.
func (s *Service) HasAny(role navigation.Role, perms ...string) bool {
	normalized := normalizePermissions(perms)
	if len(normalized) == 0 {
		return true
	}
	set := s.grants[role]
	for _, p := range normalized {
		if _, ok := set[p]; ok {
			return true
		}
	}
	return false
}

func normalizePermissions(perms []string) []string {
	unique := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		unique[p] = struct{}{}
	}
	normalized := make([]string, 0, len(unique))
	for p := range unique {
		normalized = append(normalized, p)
	}
	return normalized
}
