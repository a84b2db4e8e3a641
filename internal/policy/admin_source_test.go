package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdminEmails(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected []string
	}{
		{name: "empty string", raw: "", expected: nil},
		{name: "trims and lowercases", raw: " Alice@Example.com ,BOB@example.com", expected: []string{"alice@example.com", "bob@example.com"}},
		{name: "drops empty entries", raw: "a@x.org,, ,b@x.org,", expected: []string{"a@x.org", "b@x.org"}},
		{name: "drops duplicates", raw: "a@x.org,A@X.ORG", expected: []string{"a@x.org"}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAdminEmails(tt.raw))
		})
	}
}

func TestMergeAdminSources(t *testing.T) {
	added := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	env := []string{"root@example.com", "both@example.com"}
	db := []DatabaseAdmin{
		{ID: "row-1", Email: "Both@Example.com", AddedByName: "Root", CreatedAt: added},
		{ID: "row-2", Email: "db@example.com", AddedByName: "Root", CreatedAt: added},
	}

	entries := MergeAdminSources(env, db)
	require.Len(t, entries, 3)

	assert.Equal(t, "both@example.com", entries[0].Email)
	assert.ElementsMatch(t, []AdminSource{AdminSourceEnv, AdminSourceDatabase}, entries[0].Sources)
	assert.Equal(t, "row-1", entries[0].ID)
	assert.False(t, entries[0].Removable(), "env-backed entries keep admin after database removal")

	assert.Equal(t, "db@example.com", entries[1].Email)
	assert.Equal(t, []AdminSource{AdminSourceDatabase}, entries[1].Sources)
	assert.True(t, entries[1].Removable())
	require.NotNil(t, entries[1].CreatedAt)
	assert.True(t, entries[1].CreatedAt.Equal(added))

	assert.Equal(t, "root@example.com", entries[2].Email)
	assert.Equal(t, []AdminSource{AdminSourceEnv}, entries[2].Sources)
	assert.Empty(t, entries[2].ID)
	assert.False(t, entries[2].Removable())
}

func TestInEnvList(t *testing.T) {
	env := []string{"root@example.com"}
	assert.True(t, InEnvList(env, " ROOT@example.com "))
	assert.False(t, InEnvList(env, "other@example.com"))
	assert.False(t, InEnvList(nil, "root@example.com"))
}
