// Package models - Label sets mapping class indices to names.
package models

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-yolo/common"
)

// LabelSet is an ordered list of class names; the position of a name is the
// class index the network emits for it.
type LabelSet struct {
	names []string
	// nameToIdx for fast lookup by name
	nameToIdx map[string]int
}

// NewLabelSet copies names into a LabelSet. Duplicate names resolve to their
// first index on reverse lookup.
func NewLabelSet(names []string) LabelSet {
	s := LabelSet{
		names:     append([]string(nil), names...),
		nameToIdx: make(map[string]int, len(names)),
	}
	for i, n := range s.names {
		if _, ok := s.nameToIdx[n]; !ok {
			s.nameToIdx[n] = i
		}
	}
	return s
}

// Len returns the number of classes.
func (s LabelSet) Len() int {
	return len(s.names)
}

// Name returns the class name for idx.
//
// Returns:
//   - string: The label.
//   - error: ErrDecode if idx is out of range.
func (s LabelSet) Name(idx int) (string, error) {
	if idx < 0 || idx >= len(s.names) {
		return "", errors.Wrapf(common.ErrDecode, "class index %d out of range for %d labels", idx, len(s.names))
	}
	return s.names[idx], nil
}

// Index returns the class index for name.
func (s LabelSet) Index(name string) (int, bool) {
	idx, ok := s.nameToIdx[name]
	return idx, ok
}

// Names returns a copy of the labels in index order.
func (s LabelSet) Names() []string {
	return append([]string(nil), s.names...)
}

// COCOLabels is the 80 COCO classes in darknet order, without a background class.
var COCOLabels = []string{
	"person", "bicycle", "car", "motorbike", "aeroplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat", "dog", "horse",
	"sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack", "umbrella", "handbag", "tie",
	"suitcase", "frisbee", "skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove",
	"skateboard", "surfboard", "tennis racket", "bottle", "wine glass", "cup", "fork", "knife", "spoon",
	"bowl", "banana", "apple", "sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut",
	"cake", "chair", "sofa", "pottedplant", "bed", "diningtable", "toilet", "tvmonitor", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator", "book",
	"clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}
