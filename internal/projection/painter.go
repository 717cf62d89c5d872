package projection

import (
	"cmp"
	"slices"

	"painter3d/internal/geom"
)

// SortByDepth returns a copy of tris ordered by descending Depth, so drawing
// the result in order paints far triangles first and near ones over them.
// Equal depths keep their input order.
func SortByDepth(tris []geom.Triangle) []geom.Triangle {
	out := slices.Clone(tris)
	sortByDepth(out)
	return out
}

func sortByDepth(tris []geom.Triangle) {
	slices.SortStableFunc(tris, func(a, b geom.Triangle) int {
		return cmp.Compare(b.Depth, a.Depth)
	})
}
