package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelCreatorIsOperator(t *testing.T) {
	ch := NewChannel("#a", "creator")
	assert.True(t, ch.IsMember("creator"))
	assert.True(t, ch.IsOperator("creator"))
	assert.False(t, ch.Empty())
}

func TestChannelMembershipOrder(t *testing.T) {
	ch := NewChannel("#a", "u1")
	assert.True(t, ch.AddMember("u2"))
	assert.True(t, ch.AddMember("u3"))
	assert.Equal(t, []string{"u1", "u2", "u3"}, ch.members)

	// Duplicate joins are refused and do not disturb the order.
	assert.False(t, ch.AddMember("u2"))
	assert.Equal(t, []string{"u1", "u2", "u3"}, ch.members)

	assert.True(t, ch.RemoveMember("u2"))
	assert.False(t, ch.IsMember("u2"))
	assert.Equal(t, []string{"u1", "u3"}, ch.members)

	// Leaving twice fails.
	assert.False(t, ch.RemoveMember("u2"))
}

func TestChannelUserLimit(t *testing.T) {
	ch := NewChannel("#a", "u1")
	ch.userLimit = 2
	assert.True(t, ch.AddMember("u2"))
	assert.False(t, ch.AddMember("u3"), "join past the limit must fail")

	// Freeing a slot admits the next joiner.
	ch.RemoveMember("u2")
	assert.True(t, ch.AddMember("u3"))

	// Limit zero means unbounded.
	ch.userLimit = 0
	assert.True(t, ch.AddMember("u4"))
}

func TestChannelOperatorsAreMembers(t *testing.T) {
	ch := NewChannel("#a", "u1")
	ch.AddMember("u2")

	// Only members can hold operator.
	ch.AddOperator("stranger")
	assert.False(t, ch.IsOperator("stranger"))

	ch.AddOperator("u2")
	assert.True(t, ch.IsOperator("u2"))

	// Leaving strips operator status.
	ch.RemoveMember("u2")
	assert.False(t, ch.IsOperator("u2"))

	ch.AddOperator("u1")
	ch.RemoveOperator("u1")
	assert.False(t, ch.IsOperator("u1"))
	assert.True(t, ch.IsMember("u1"), "revoking operator keeps membership")
}

func TestChannelInvitations(t *testing.T) {
	ch := NewChannel("#a", "u1")

	assert.False(t, ch.IsInvited("u2"))
	ch.Invite("u2")
	assert.True(t, ch.IsInvited("u2"))

	// Leaving drops any standing invitation.
	ch.AddMember("u2")
	ch.RemoveMember("u2")
	assert.False(t, ch.IsInvited("u2"))
}

func TestChannelEmpty(t *testing.T) {
	ch := NewChannel("#a", "u1")
	ch.RemoveMember("u1")
	assert.True(t, ch.Empty())
}

func TestChannelModeString(t *testing.T) {
	ch := NewChannel("#a", "u1")
	assert.Equal(t, "+", ch.modeString())

	ch.inviteOnly = true
	ch.topicRestricted = true
	assert.Equal(t, "+it", ch.modeString())

	ch.key = "sekrit"
	ch.userLimit = 5
	assert.Equal(t, "+itkl sekrit 5", ch.modeString())

	ch.inviteOnly = false
	ch.topicRestricted = false
	ch.key = ""
	assert.Equal(t, "+l 5", ch.modeString())
}
