package flatfile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s, "setup.txt", "North Hall\n1 Campus Rd\n1\n2\n")
	writeFile(t, s, "roomStatus.txt", "101,Vacant\n102,Nope\n")

	reports, err := s.Inspect(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 4)

	assert.True(t, reports[0].Healthy())
	assert.Equal(t, 1, reports[0].Records)

	assert.False(t, reports[1].Healthy())
	assert.Equal(t, 1, reports[1].Records)
	require.Len(t, reports[1].Malformed, 1)
	assert.Contains(t, reports[1].Malformed[0], "roomStatus.txt:2")

	assert.False(t, reports[2].Exists)
	assert.False(t, reports[3].Exists)
}

func TestEnsureFiles(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s, "setup.txt", "")

	created, err := s.EnsureFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"roomStatus.txt", "dormers.txt", "paymentStatus.txt"}, created)

	created, err = s.EnsureFiles()
	require.NoError(t, err)
	assert.Empty(t, created)
}
