package img2ascii

import "math"

// ClosestCode returns the code whose tabulated brightness is closest to
// brightness. The scan is linear over the table in insertion order and
// the first entry at the minimum distance wins ties. An empty table
// yields ErrEmptyTable.
func (t *Table) ClosestCode(brightness float64) (int, error) {
	if t.Len() == 0 {
		return 0, ErrEmptyTable
	}
	it := t.entries.Iterator()
	it.Next()
	bestCode := it.Value().(int)
	minDist := math.Abs(it.Key().(float64) - brightness)
	for it.Next() {
		if d := math.Abs(it.Key().(float64) - brightness); d < minDist {
			minDist = d
			bestCode = it.Value().(int)
		}
	}
	return bestCode, nil
}
