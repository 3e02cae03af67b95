package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, s := range Stages {
		got, err := Parse(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := Parse("hired")
	assert.Error(t, err)
}

func TestNextIsOneDirectional(t *testing.T) {
	seen := map[Stage]bool{}
	s := Contact
	for {
		require.False(t, seen[s], "stage %s visited twice", s)
		seen[s] = true
		next, ok := s.Next()
		if !ok {
			break
		}
		s = next
	}
	assert.Equal(t, CandidateEndorsement, s)
	assert.Len(t, seen, len(Stages))
}

func TestListPaths(t *testing.T) {
	assert.Equal(t, "/candidates/initial-screening", Contact.ListPath())
	assert.Equal(t, "/candidates/contact", Screening.ListPath())
	assert.Equal(t, "/candidates/screening", Endorsement.ListPath())
	assert.Equal(t, "/candidates/", CandidateEndorsement.ListPath())
	assert.Empty(t, Stage("bogus").ListPath())
}
