package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLearner(t *testing.T) {
	tests := []struct {
		name    string
		params  NewLearnerParams
		wantErr error
	}{
		{
			name: "valid child profile",
			params: NewLearnerParams{
				ID:          "learner-1",
				OwnerID:     "owner-1",
				DisplayName: "Sofía",
				AvatarColor: "teal",
			},
		},
		{
			name: "valid adult profile",
			params: NewLearnerParams{
				ID:          "learner-2",
				OwnerID:     "owner-1",
				DisplayName: "Papá",
				IsAdult:     true,
			},
		},
		{
			name: "missing owner",
			params: NewLearnerParams{
				ID:          "learner-3",
				OwnerID:     "  ",
				DisplayName: "Sofía",
			},
			wantErr: ErrInvalidOwnerID,
		},
		{
			name: "empty display name",
			params: NewLearnerParams{
				ID:          "learner-4",
				OwnerID:     "owner-1",
				DisplayName: "   ",
			},
			wantErr: ErrInvalidDisplayName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLearner(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, l)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Score(0), l.Score)
			assert.Empty(t, l.FriendCode)
			assert.Empty(t, l.Friends)
		})
	}
}

func TestLearner_AddFriend(t *testing.T) {
	l := &Learner{ID: "a"}

	require.NoError(t, l.AddFriend("b"))
	assert.True(t, l.HasFriend("b"))

	// Set semantics: adding twice keeps a single edge.
	require.NoError(t, l.AddFriend("b"))
	assert.Len(t, l.Friends, 1)

	// A profile can never befriend itself.
	assert.ErrorIs(t, l.AddFriend("a"), ErrSelfFriend)
	assert.Len(t, l.Friends, 1)
}

func TestLearner_RemoveFriend(t *testing.T) {
	l := &Learner{ID: "a", Friends: []string{"b", "c"}}

	l.RemoveFriend("b")
	assert.Equal(t, []string{"c"}, l.Friends)

	// Removing a non-friend is a no-op.
	l.RemoveFriend("zz")
	assert.Equal(t, []string{"c"}, l.Friends)
}

func TestLearner_AssignFriendCode(t *testing.T) {
	l := &Learner{ID: "a"}

	require.NoError(t, l.AssignFriendCode("sofia#0412"))
	assert.Equal(t, FriendCode("sofia#0412"), l.FriendCode)

	// The code is stable for the lifetime of the profile.
	err := l.AssignFriendCode("sofia#9999")
	assert.ErrorIs(t, err, ErrFriendCodeAlreadySet)
	assert.Equal(t, FriendCode("sofia#0412"), l.FriendCode)

	l2 := &Learner{ID: "b"}
	assert.ErrorIs(t, l2.AssignFriendCode("no-hash"), ErrMalformedFriendCode)
	assert.ErrorIs(t, l2.AssignFriendCode("ana#12"), ErrMalformedFriendCode)
	assert.ErrorIs(t, l2.AssignFriendCode("#1234"), ErrMalformedFriendCode)
}

func TestFriendCode_IsValid(t *testing.T) {
	tests := []struct {
		code  FriendCode
		valid bool
	}{
		{"sofia#0412", true},
		{"Sofia123#0001", true},
		{"sofia#412", false},
		{"sofia#04122", false},
		{"sofia0412", false},
		{"#0412", false},
		{"so fia#0412", false},
		{"sofia#04a2", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.code.IsValid(), "code %q", tt.code)
	}
}

func TestLearner_SetScore(t *testing.T) {
	l := &Learner{ID: "a", Score: 120}

	require.NoError(t, l.SetScore(90))
	assert.Equal(t, Score(90), l.Score)

	assert.ErrorIs(t, l.SetScore(-1), ErrInvalidScore)
	assert.Equal(t, Score(90), l.Score)
}

func TestLearner_Clone(t *testing.T) {
	l := &Learner{ID: "a", Friends: []string{"b"}}
	clone := l.Clone()

	clone.Friends[0] = "x"
	assert.Equal(t, "b", l.Friends[0])
}
