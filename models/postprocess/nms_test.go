package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nvr-ai/go-yolo/images"
)

func TestNMS(t *testing.T) {
	same := images.Box{CX: 50, CY: 50, W: 20, H: 40}

	tests := []struct {
		name           string
		boxes          []images.Box
		scores         []float32
		scoreThreshold float32
		iouThreshold   float32
		expected       []int
	}{
		{
			name:         "identical boxes keep the higher score",
			boxes:        []images.Box{same, same},
			scores:       []float32{0.7, 0.9},
			iouThreshold: 0.5,
			expected:     []int{1},
		},
		{
			name: "disjoint boxes are all kept in score order",
			boxes: []images.Box{
				{CX: 10, CY: 10, W: 10, H: 10},
				{CX: 100, CY: 100, W: 10, H: 10},
				{CX: 200, CY: 200, W: 10, H: 10},
			},
			scores:       []float32{0.4, 0.8, 0.6},
			iouThreshold: 0.3,
			expected:     []int{1, 2, 0},
		},
		{
			name: "score threshold drops low candidates",
			boxes: []images.Box{
				{CX: 10, CY: 10, W: 10, H: 10},
				{CX: 100, CY: 100, W: 10, H: 10},
			},
			scores:         []float32{0.29, 0.3},
			scoreThreshold: 0.3,
			iouThreshold:   0.5,
			expected:       []int{1},
		},
		{
			// Overlap of 1/7: suppressed at 1/7, kept just above it.
			name: "iou exactly at threshold suppresses",
			boxes: []images.Box{
				{CX: 50, CY: 50, W: 100, H: 100},
				{CX: 100, CY: 100, W: 100, H: 100},
			},
			scores:       []float32{0.9, 0.8},
			iouThreshold: 2500.0 / 17500.0,
			expected:     []int{0},
		},
		{
			name: "iou below threshold survives",
			boxes: []images.Box{
				{CX: 50, CY: 50, W: 100, H: 100},
				{CX: 100, CY: 100, W: 100, H: 100},
			},
			scores:       []float32{0.9, 0.8},
			iouThreshold: 0.15,
			expected:     []int{0, 1},
		},
		{
			name: "suppressed box does not suppress others",
			boxes: []images.Box{
				{CX: 50, CY: 50, W: 100, H: 100},
				{CX: 80, CY: 50, W: 100, H: 100},
				{CX: 110, CY: 50, W: 100, H: 100},
			},
			scores:       []float32{0.9, 0.8, 0.7},
			iouThreshold: 0.5,
			expected:     []int{0, 2},
		},
		{
			name:         "equal scores keep input order",
			boxes:        []images.Box{same, same},
			scores:       []float32{0.5, 0.5},
			iouThreshold: 0.5,
			expected:     []int{0},
		},
		{
			name:     "empty input",
			expected: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NMS(tt.boxes, tt.scores, tt.scoreThreshold, tt.iouThreshold)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestNMSIdempotent re-runs suppression on its own output.
func TestNMSIdempotent(t *testing.T) {
	boxes := []images.Box{
		{CX: 50, CY: 50, W: 100, H: 100},
		{CX: 55, CY: 52, W: 100, H: 96},
		{CX: 200, CY: 200, W: 40, H: 40},
		{CX: 210, CY: 205, W: 40, H: 40},
		{CX: 400, CY: 60, W: 10, H: 80},
	}
	scores := []float32{0.6, 0.9, 0.5, 0.55, 0.35}

	first := NMS(boxes, scores, 0.3, 0.4)

	keptBoxes := make([]images.Box, len(first))
	keptScores := make([]float32, len(first))
	for i, idx := range first {
		keptBoxes[i] = boxes[idx]
		keptScores[i] = scores[idx]
	}

	second := NMS(keptBoxes, keptScores, 0.3, 0.4)
	assert.Len(t, second, len(first))
	for i, idx := range second {
		assert.Equal(t, i, idx, "second pass must keep the set unchanged and in order")
	}
}

func TestNMSMismatchedLengthsPanics(t *testing.T) {
	assert.Panics(t, func() {
		NMS([]images.Box{{}}, nil, 0, 0.5)
	})
}
