package postprocess

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-yolo/common"
	"github.com/nvr-ai/go-yolo/images"
	"github.com/nvr-ai/go-yolo/models"
)

func TestBuildDetections(t *testing.T) {
	labels := models.NewLabelSet([]string{"cat", "dog"})
	candidates := []Candidate{
		{Box: images.Box{CX: 50, CY: 50, W: 20, H: 40}, ClassIndex: 1, Confidence: 0.95, ClassProbability: 0.9},
		{Box: images.Box{CX: 10.9, CY: 7.7, W: 5.9, H: 3.2}, ClassIndex: 0, Confidence: 0.5, ClassProbability: 0.4},
		{Box: images.Box{CX: 2.5, CY: 1, W: 10, H: 6}, ClassIndex: 0, Confidence: 0.6, ClassProbability: 0.7},
	}

	got, err := BuildDetections(candidates, []int{0, 2, 1}, labels)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "dog", got[0].Label)
	assert.InDelta(t, 0.9, got[0].Probability, 1e-6)
	assert.Equal(t, [4]int{40, 30, 20, 40}, [4]int{got[0].X, got[0].Y, got[0].Width, got[0].Height})

	// -2.5 and -2 truncate toward zero.
	assert.Equal(t, [4]int{-2, -2, 10, 6}, [4]int{got[1].X, got[1].Y, got[1].Width, got[1].Height})

	// 7.95 -> 7, 6.1 -> 6, 5.9 -> 5, 3.2 -> 3.
	assert.Equal(t, [4]int{7, 6, 5, 3}, [4]int{got[2].X, got[2].Y, got[2].Width, got[2].Height})
	assert.Equal(t, "cat", got[2].Label)
}

func TestBuildDetectionsEmpty(t *testing.T) {
	got, err := BuildDetections(nil, nil, models.NewLabelSet([]string{"a"}))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBuildDetectionsUnknownClass(t *testing.T) {
	candidates := []Candidate{{ClassIndex: 3}}
	_, err := BuildDetections(candidates, []int{0}, models.NewLabelSet([]string{"a"}))
	assert.True(t, errors.Is(err, common.ErrDecode))
}

func TestBuildDetectionsProbabilityIsWidenedScore(t *testing.T) {
	candidates := []Candidate{{ClassIndex: 0, ClassProbability: 0.9}}
	got, err := BuildDetections(candidates, []int{0}, models.NewLabelSet([]string{"a"}))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, float64(float32(0.9)), got[0].Probability)
	assert.Equal(t, 0.8999999761581421, got[0].Probability)
}
