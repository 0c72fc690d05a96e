package yolov3

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-yolo/common"
	"github.com/nvr-ai/go-yolo/images"
	"github.com/nvr-ai/go-yolo/inference"
	"github.com/nvr-ai/go-yolo/models/model"
	"github.com/nvr-ai/go-yolo/models/postprocess"
)

// Prefix is the number of leading columns before the class scores:
//
//	0 1 : center x/y      2 3 : width/height      4 : objectness
const Prefix = 5

// Decode turns YOLO output grids into candidates.
//
// Each row is [cx, cy, w, h, objectness, score_0 ... score_C-1] with
// coordinates normalized to the image. Rows are checked in this order:
// objectness, best class label against the filter, then the best class score.
// Only the argmax class is considered; a filtered row is never rescued by a
// runner-up class. Both thresholds keep values equal to MinProbability.
//
// Arguments:
//   - outputs: One tensor per output layer. Candidates are pooled in order.
//   - ctx: Image size, threshold, label filter and label set.
//
// Returns:
//   - []postprocess.Candidate: Candidates in pixel units.
//   - error: ErrDecode when a tensor's column count does not match the labels.
func Decode(outputs []inference.OutputTensor, ctx model.DecodeContext) ([]postprocess.Candidate, error) {
	if ctx.Labels.Len() == 0 {
		return nil, errors.Wrap(common.ErrDecode, "no labels to decode against")
	}
	wantCols := Prefix + ctx.Labels.Len()
	w := float32(ctx.ImageWidth)
	h := float32(ctx.ImageHeight)

	var candidates []postprocess.Candidate
	for n, out := range outputs {
		if err := out.Validate(); err != nil {
			return nil, errors.WithMessagef(err, "output %d", n)
		}
		if out.Cols != wantCols {
			return nil, errors.Wrapf(common.ErrDecode, "output %d has %d columns, %d labels need %d",
				n, out.Cols, ctx.Labels.Len(), wantCols)
		}

		for i := 0; i < out.Rows; i++ {
			row := out.Row(i)

			objectness := row[4]
			if objectness < ctx.MinProbability {
				continue
			}

			classIndex := argmax(row[Prefix:])

			if ctx.LabelsFilter != nil {
				label, err := ctx.Labels.Name(classIndex)
				if err != nil {
					return nil, err
				}
				if _, ok := ctx.LabelsFilter[label]; !ok {
					continue
				}
			}

			probability := row[Prefix+classIndex]
			if probability < ctx.MinProbability {
				continue
			}

			candidates = append(candidates, postprocess.Candidate{
				Box: images.Box{
					CX: row[0] * w,
					CY: row[1] * h,
					W:  row[2] * w,
					H:  row[3] * h,
				},
				ClassIndex:       classIndex,
				Confidence:       objectness,
				ClassProbability: probability,
			})
		}
	}

	return candidates, nil
}

// argmax returns the index of the first maximum of scores.
func argmax(scores []float32) int {
	best := 0
	for j := 1; j < len(scores); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	return best
}
