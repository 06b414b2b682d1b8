package core

import (
	"fmt"
	"strings"
)

// ActionRef identifies a reusable action invoked through "uses". Ref is the
// pinned version or commit and is ignored when comparing actions.
type ActionRef struct {
	Owner   string
	Repo    string
	Subpath string
	Ref     string
}

// ParseActionRef parses a "uses" string of the form
// owner/repo[/subpath...][@ref]. It returns false for anything else:
// local actions ("./.github/actions/x"), docker references
// ("docker://alpine") and malformed values. Such steps are simply not
// applicable for registry lookups, they are not an error.
func ParseActionRef(uses string) (*ActionRef, bool) {
	if uses == "" || strings.HasPrefix(uses, ".") || strings.HasPrefix(uses, "docker://") {
		return nil, false
	}

	ref := ""
	if idx := strings.Index(uses, "@"); idx != -1 {
		ref = uses[idx+1:]
		uses = uses[:idx]
	}

	parts := strings.Split(uses, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, false
	}

	return &ActionRef{
		Owner:   parts[0],
		Repo:    parts[1],
		Subpath: strings.Join(parts[2:], "/"),
		Ref:     ref,
	}, true
}

// SameAction reports whether both references point at the same action,
// ignoring the pinned ref. Owner and repository compare case-insensitively,
// the way GitHub resolves them.
func (r *ActionRef) SameAction(other *ActionRef) bool {
	if other == nil {
		return false
	}
	return strings.EqualFold(r.Owner, other.Owner) &&
		strings.EqualFold(r.Repo, other.Repo) &&
		r.Subpath == other.Subpath
}

func (r *ActionRef) String() string {
	s := r.Owner + "/" + r.Repo
	if r.Subpath != "" {
		s += "/" + r.Subpath
	}
	if r.Ref != "" {
		s += "@" + r.Ref
	}
	return s
}

// mustActionRef parses a registry entry and panics on failure. Registry
// contents are fixed data, so a parse failure is an authoring defect that
// must not survive process start.
func mustActionRef(uses string) *ActionRef {
	ref, ok := ParseActionRef(uses)
	if !ok {
		panic(fmt.Sprintf("invalid action reference in registry: %q", uses))
	}
	return ref
}
