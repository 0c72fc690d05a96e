package postprocess

import (
	"github.com/samber/lo"

	"github.com/nvr-ai/go-yolo/common"
	"github.com/nvr-ai/go-yolo/models"
)

// BuildDetections converts the kept candidates into public detections.
//
// The center-form box becomes an integer top-left rectangle by truncating
// toward zero, not rounding: X = int(cx - w/2), Width = int(w).
//
// Arguments:
//   - candidates: All decoded candidates.
//   - kept: Indices into candidates, in output order.
//   - labels: The label set used to name class indices.
//
// Returns:
//   - []common.Detection: One detection per kept index.
//   - error: ErrDecode if a class index has no label.
func BuildDetections(candidates []Candidate, kept []int, labels models.LabelSet) ([]common.Detection, error) {
	var err error
	detections := lo.Map(kept, func(idx int, _ int) common.Detection {
		c := candidates[idx]
		label, lerr := labels.Name(c.ClassIndex)
		if lerr != nil && err == nil {
			err = lerr
		}
		return common.Detection{
			X:           int(c.Box.CX - c.Box.W/2),
			Y:           int(c.Box.CY - c.Box.H/2),
			Width:       int(c.Box.W),
			Height:      int(c.Box.H),
			Label:       label,
			Probability: float64(c.ClassProbability),
		}
	})
	if err != nil {
		return nil, err
	}
	return detections, nil
}
