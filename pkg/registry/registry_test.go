package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harrisonrobin/spacereport/pkg/ledger"
	"github.com/harrisonrobin/spacereport/pkg/model"
)

func TestPolicyAllowListRestricts(t *testing.T) {
	p := NewSpacePolicy([]string{"spaces/A", "spaces/B"}, nil)

	assert.True(t, p.Qualifies("spaces/A"))
	assert.True(t, p.Qualifies("spaces/B"))
	assert.False(t, p.Qualifies("spaces/C"))
}

func TestPolicyDenyBeatsAllow(t *testing.T) {
	p := NewSpacePolicy([]string{"spaces/A", "spaces/B"}, []string{"spaces/B"})

	assert.True(t, p.Qualifies("spaces/A"))
	assert.False(t, p.Qualifies("spaces/B"))
}

func TestPolicyEmptyAllowMeansEverything(t *testing.T) {
	p := NewSpacePolicy(nil, []string{"spaces/B"})

	assert.True(t, p.Qualifies("spaces/A"))
	assert.False(t, p.Qualifies("spaces/B"))
	assert.True(t, AllowAll().Qualifies("spaces/B"))
}

func TestDerivePeopleAndSpaces(t *testing.T) {
	created := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	snap := ledger.Of([]model.TaskRecord{
		{ID: "t1", CreatedTime: created, Assignee: "Carol", Sender: "Bob", SpaceID: "spaces/A", SpaceDisplayName: "Alpha"},
		{ID: "t2", CreatedTime: created.Add(time.Hour), Assignee: "", Sender: "Alice", SpaceID: "spaces/A", SpaceDisplayName: "Alpha"},
		{ID: "t3", CreatedTime: created.Add(2 * time.Hour), Assignee: "Bob", Sender: "Carol", SpaceID: "spaces/B", SpaceDisplayName: "Beta"},
	})

	people, spaces := Derive(snap, AllowAll())

	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, people)
	assert.Equal(t, []model.Space{
		{ID: "spaces/A", DisplayName: "Alpha"},
		{ID: "spaces/B", DisplayName: "Beta"},
	}, spaces)
}

func TestDeriveHonorsPolicy(t *testing.T) {
	created := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	snap := ledger.Of([]model.TaskRecord{
		{ID: "t1", CreatedTime: created, Assignee: "Carol", Sender: "Bob", SpaceID: "spaces/A"},
		{ID: "t2", CreatedTime: created.Add(time.Hour), Assignee: "Dave", Sender: "Dave", SpaceID: "spaces/B"},
	})

	people, spaces := Derive(snap, NewSpacePolicy(nil, []string{"spaces/B"}))

	assert.Equal(t, []string{"Bob", "Carol"}, people, "people from denied spaces are invisible")
	assert.Len(t, spaces, 1)
	assert.Equal(t, "spaces/A", spaces[0].ID)
}

func TestDeriveSpacesSortByLabel(t *testing.T) {
	created := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	snap := ledger.Of([]model.TaskRecord{
		{ID: "t1", CreatedTime: created, Sender: "A", SpaceID: "spaces/2", SpaceDisplayName: "Zulu"},
		{ID: "t2", CreatedTime: created, Sender: "A", SpaceID: "spaces/1"}, // no display name, sorts by id
		{ID: "t3", CreatedTime: created, Sender: "A", SpaceID: "spaces/3", SpaceDisplayName: "Alpha"},
	})

	_, spaces := Derive(snap, AllowAll())

	var labels []string
	for _, s := range spaces {
		labels = append(labels, s.Label())
	}
	assert.Equal(t, []string{"Alpha", "Zulu", "spaces/1"}, labels)
}

func TestFilterSpacesKeepsOrder(t *testing.T) {
	spaces := []model.Space{
		{ID: "spaces/C"}, {ID: "spaces/A"}, {ID: "spaces/B"},
	}
	out := FilterSpaces(spaces, NewSpacePolicy(nil, []string{"spaces/A"}))

	assert.Equal(t, []model.Space{{ID: "spaces/C"}, {ID: "spaces/B"}}, out)
}
