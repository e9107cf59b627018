package structure

import (
	"strconv"
	"strings"

	"github.com/benedoc-inc/docdiff/types"
)

// ImageChange is the difference found at one image ordinal
type ImageChange struct {
	Ordinal int
	Status  Status
	Left    *types.ComparableUnit // nil when added
	Right   *types.ComparableUnit // nil when removed
}

// ImageComparison holds every changed image and the counts they contribute
type ImageComparison struct {
	Changes []ImageChange
	Summary types.ChangeSummary
}

// CompareImages compares image units by ordinal. Unchanged images are omitted.
func CompareImages(left, right []types.ComparableUnit) ImageComparison {
	var result ImageComparison
	additions, deletions := 0, 0

	for i := 0; i < max(len(left), len(right)); i++ {
		switch {
		case i >= len(left):
			result.Changes = append(result.Changes, ImageChange{Ordinal: i, Status: StatusAdded, Right: &right[i]})
			additions++
		case i >= len(right):
			result.Changes = append(result.Changes, ImageChange{Ordinal: i, Status: StatusRemoved, Left: &left[i]})
			deletions++
		case ImageChanged(left[i].Image, right[i].Image):
			result.Changes = append(result.Changes, ImageChange{
				Ordinal: i,
				Status:  StatusModified,
				Left:    &left[i],
				Right:   &right[i],
			})
			additions++
			deletions++
		}
	}

	result.Summary = types.NewChangeSummary(additions, deletions)
	return result
}

// ImageChanged reports whether source, alt text or dimensions differ.
// Title, class and style are carried for display only.
func ImageChanged(a, b *types.ImageSnapshot) bool {
	if a == nil || b == nil {
		return a != b
	}
	return a.Source != b.Source ||
		a.AltText != b.AltText ||
		NormalizeDimension(a.Width) != NormalizeDimension(b.Width) ||
		NormalizeDimension(a.Height) != NormalizeDimension(b.Height)
}

// NormalizeDimension makes "100", "100px" and "100.0" compare equal.
// Values in other units are compared as written.
func NormalizeDimension(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	num := strings.TrimSpace(strings.TrimSuffix(v, "px"))
	if f, err := strconv.ParseFloat(num, 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return v
}
