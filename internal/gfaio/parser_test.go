package gfaio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOf(t *testing.T) {
	t.Parallel()

	rt, err := TypeOf([]byte("S\tn1\tACGT"))
	require.NoError(t, err)
	assert.Equal(t, Segment, rt)

	_, err = TypeOf([]byte(""))
	assert.Error(t, err)

	_, err = TypeOf([]byte("SS\tn1"))
	assert.Error(t, err)
}

func TestParseSegment(t *testing.T) {
	t.Parallel()

	f, err := ParseSegment([]byte("S\tn1\tACGT"))
	require.NoError(t, err)
	assert.Equal(t, "n1", string(f.ID))
	assert.Equal(t, "ACGT", string(f.Sequence))

	f, err = ParseSegment([]byte("S\tn1\tACGT\tLN:i:4"))
	require.NoError(t, err)
	assert.Equal(t, "ACGT", string(f.Sequence))

	_, err = ParseSegment([]byte("S\t"))
	assert.Error(t, err)
}

func TestParseLink(t *testing.T) {
	t.Parallel()

	f, err := ParseLink([]byte("L\tn1\t+\tn2\t-\t0M"))
	require.NoError(t, err)
	assert.Equal(t, "n1", string(f.From))
	assert.Equal(t, "n2", string(f.To))

	_, err = ParseLink([]byte("L\tn1\t+"))
	assert.Error(t, err)

	_, err = ParseLink([]byte("L\t\t+\tn2\t-\t0M"))
	assert.Error(t, err)
}

func TestParsePath(t *testing.T) {
	t.Parallel()

	f, err := ParsePath([]byte("P\tpath1\tn1+,n2-,n3+\t*"))
	require.NoError(t, err)
	assert.Equal(t, "path1", string(f.Name))
	assert.Equal(t, "n1+,n2-,n3+", string(f.NodeList))

	ids := PathNodeIDs(f.NodeList)
	require.Len(t, ids, 3)
	assert.Equal(t, "n1", string(ids[0]))
	assert.Equal(t, "n2", string(ids[1]))
	assert.Equal(t, "n3", string(ids[2]))
}

func TestPathNodeIDs_Empty(t *testing.T) {
	t.Parallel()
	assert.Nil(t, PathNodeIDs(nil))
}
