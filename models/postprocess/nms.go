package postprocess

import (
	"fmt"
	"sort"

	"github.com/nvr-ai/go-yolo/images"
)

// NMS performs standard greedy Non-Maximum Suppression.
//
// Boxes scoring below scoreThreshold are dropped first. The rest are visited
// in descending score order (ties keep input order); each visited box is kept
// and suppresses every remaining box whose IoU with it is at or above
// iouThreshold. Suppression is class-agnostic.
//
// Arguments:
//   - boxes: Candidate boxes.
//   - scores: One score per box.
//   - scoreThreshold: Minimum score to be considered at all.
//   - iouThreshold: Overlap at which a lower scored box is suppressed.
//
// Returns:
//   - []int: Indices into boxes of the kept boxes, in the order they were kept.
func NMS(boxes []images.Box, scores []float32, scoreThreshold, iouThreshold float32) []int {
	if len(boxes) != len(scores) {
		panic(fmt.Sprintf("postprocess: NMS got %d boxes and %d scores", len(boxes), len(scores)))
	}

	order := make([]int, 0, len(boxes))
	for i, s := range scores {
		if s >= scoreThreshold {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	kept := make([]int, 0, len(order))
	used := make([]bool, len(order))

	for i := range order {
		if used[i] {
			continue
		}

		anchor := boxes[order[i]]
		kept = append(kept, order[i])
		used[i] = true

		for j := i + 1; j < len(order); j++ {
			if used[j] {
				continue
			}
			if images.IoU(anchor, boxes[order[j]]) >= iouThreshold {
				used[j] = true
			}
		}
	}

	return kept
}
