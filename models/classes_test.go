package models

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-yolo/common"
)

func TestLabelSet(t *testing.T) {
	src := []string{"person", "dog", "person"}
	s := NewLabelSet(src)
	src[1] = "mutated"

	assert.Equal(t, 3, s.Len())

	name, err := s.Name(1)
	require.NoError(t, err)
	assert.Equal(t, "dog", name, "LabelSet must not alias the caller's slice")

	idx, ok := s.Index("person")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = s.Index("cat")
	assert.False(t, ok)

	for _, bad := range []int{-1, 3} {
		_, err := s.Name(bad)
		assert.True(t, errors.Is(err, common.ErrDecode))
	}
}

func TestCOCOLabels(t *testing.T) {
	s := NewLabelSet(COCOLabels)
	assert.Equal(t, 80, s.Len())

	name, err := s.Name(0)
	require.NoError(t, err)
	assert.Equal(t, "person", name)
}
