// Package postprocess - Candidate suppression and result building.
package postprocess

import "github.com/nvr-ai/go-yolo/images"

// Candidate is a decoded detection before suppression.
type Candidate struct {
	// The box in pixels, center form.
	Box images.Box
	// The predicted class index.
	ClassIndex int
	// Confidence is the row's objectness score.
	Confidence float32
	// ClassProbability is the score of ClassIndex.
	ClassProbability float32
}

// Boxes returns the boxes of candidates in order.
func Boxes(candidates []Candidate) []images.Box {
	out := make([]images.Box, len(candidates))
	for i, c := range candidates {
		out[i] = c.Box
	}
	return out
}

// Confidences returns the objectness scores of candidates in order.
func Confidences(candidates []Candidate) []float32 {
	out := make([]float32, len(candidates))
	for i, c := range candidates {
		out[i] = c.Confidence
	}
	return out
}
