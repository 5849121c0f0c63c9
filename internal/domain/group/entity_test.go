package group_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/campusconnect/internal/domain/group"
	"github.com/campusconnect/campusconnect/internal/domain/shared"
)

func TestNewGroupNormalizesCourseCode(t *testing.T) {
	g, err := group.New("  Operating Systems  ", " cs301 ")
	require.NoError(t, err)

	assert.Equal(t, "Operating Systems", g.Name)
	assert.Equal(t, "CS301", g.CourseCode)
	assert.NotEmpty(t, g.ID)
}

func TestNewGroupValidation(t *testing.T) {
	_, err := group.New("", "CS101")
	assert.True(t, shared.IsValidation(err))

	_, err = group.New("Study", "  ")
	assert.True(t, shared.IsValidation(err))
}

func TestCoursePrefix(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"CS101", "CS"},
		{"MATH140", "MATH"},
		{"REC", "REC"},
		{"101", ""},
	}

	for _, tc := range cases {
		g := &group.Group{CourseCode: tc.code}
		assert.Equal(t, tc.want, g.CoursePrefix(), tc.code)
	}
}

func TestNewMembershipDefaultsRole(t *testing.T) {
	m, err := group.NewMembership("u1", "g1", "")
	require.NoError(t, err)
	assert.Equal(t, group.RoleMember, m.Role)

	m, err = group.NewMembership("u1", "g1", group.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, group.RoleModerator, m.Role)

	_, err = group.NewMembership("", "g1", "")
	assert.True(t, shared.IsValidation(err))
}
