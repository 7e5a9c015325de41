// Package registry derives the universe of people and spaces visible in a
// ledger, under an externally supplied space inclusion policy.
package registry

import (
	"sort"

	"github.com/harrisonrobin/spacereport/pkg/ledger"
	"github.com/harrisonrobin/spacereport/pkg/model"
)

// SpacePolicy decides which spaces qualify for a report. With a non-empty
// allow list only listed spaces qualify, minus any denied; with an empty
// allow list every space qualifies minus the denied ones. The decision is
// per space id, never per task.
type SpacePolicy struct {
	allow map[string]bool
	deny  map[string]bool
}

// NewSpacePolicy builds a policy from allow and deny space id lists.
func NewSpacePolicy(allow, deny []string) SpacePolicy {
	p := SpacePolicy{}
	if len(allow) > 0 {
		p.allow = make(map[string]bool, len(allow))
		for _, id := range allow {
			p.allow[id] = true
		}
	}
	if len(deny) > 0 {
		p.deny = make(map[string]bool, len(deny))
		for _, id := range deny {
			p.deny[id] = true
		}
	}
	return p
}

// AllowAll is the policy that qualifies every space.
func AllowAll() SpacePolicy {
	return SpacePolicy{}
}

// Qualifies reports whether the space id is in scope under this policy.
func (p SpacePolicy) Qualifies(id string) bool {
	if p.deny[id] {
		return false
	}
	if p.allow != nil {
		return p.allow[id]
	}
	return true
}

// Derive returns the sorted set of people (assignees and senders of tasks in
// qualifying spaces; unassigned is not a person) and the sorted set of
// qualifying spaces seen in the ledger. People sort by exact string compare;
// spaces sort by display name, falling back to id.
func Derive(snap ledger.Snapshot, policy SpacePolicy) ([]string, []model.Space) {
	peopleSet := map[string]bool{}
	spaceNames := map[string]string{}

	for _, task := range snap.Tasks() {
		if !policy.Qualifies(task.SpaceID) {
			continue
		}
		if task.Assignee != "" {
			peopleSet[task.Assignee] = true
		}
		if task.Sender != "" {
			peopleSet[task.Sender] = true
		}
		// Last seen display name wins; Tasks() order makes this stable.
		if task.SpaceDisplayName != "" || spaceNames[task.SpaceID] == "" {
			spaceNames[task.SpaceID] = task.SpaceDisplayName
		}
	}

	people := make([]string, 0, len(peopleSet))
	for p := range peopleSet {
		people = append(people, p)
	}
	sort.Strings(people)

	spaces := make([]model.Space, 0, len(spaceNames))
	for id, name := range spaceNames {
		spaces = append(spaces, model.Space{ID: id, DisplayName: name})
	}
	sort.Slice(spaces, func(i, j int) bool {
		li, lj := spaces[i].Label(), spaces[j].Label()
		if li != lj {
			return li < lj
		}
		return spaces[i].ID < spaces[j].ID
	})
	return people, spaces
}

// FilterSpaces applies the policy to an already fetched space list, keeping
// input order. Used before fetching so denied spaces are never queried.
func FilterSpaces(spaces []model.Space, policy SpacePolicy) []model.Space {
	out := make([]model.Space, 0, len(spaces))
	for _, s := range spaces {
		if policy.Qualifies(s.ID) {
			out = append(out, s)
		}
	}
	return out
}
