package kotoba

// ConnectionMatrix is the flat, row-major connection-cost table indexed by
// (leftID, rightID): the cost of transitioning from a word whose right
// context ID is rightID into a word whose left context ID is leftID. Layout
// and bounds-checked access mirror the teacher's flat-array tables
// (basic.go / model.go) rather than a map, since every (left, right) pair in
// range is populated for a well-formed dictionary.
type ConnectionMatrix struct {
	numLeft  int
	numRight int
	costs    []int16 // costs[rightID*numLeft+leftID]
}

// NewConnectionMatrix builds a ConnectionMatrix from a pre-flattened cost
// array, as a dictionary loader would construct one from a matrix.def-style
// table. len(costs) must equal numLeft*numRight.
func NewConnectionMatrix(numLeft, numRight int, costs []int16) (*ConnectionMatrix, error) {
	if numLeft <= 0 || numRight <= 0 {
		return nil, &DictionaryFormatError{Msg: "connection matrix dimensions must be positive"}
	}
	if len(costs) != numLeft*numRight {
		return nil, &DictionaryFormatError{Msg: "connection matrix cost count does not match numLeft*numRight"}
	}
	return &ConnectionMatrix{numLeft: numLeft, numRight: numRight, costs: costs}, nil
}

// NumLeft returns the number of distinct left context IDs the matrix covers.
func (m *ConnectionMatrix) NumLeft() int { return m.numLeft }

// NumRight returns the number of distinct right context IDs the matrix covers.
func (m *ConnectionMatrix) NumRight() int { return m.numRight }

// Cost returns the connection cost from a predecessor whose right context ID
// is rightID to a successor whose left context ID is leftID. Out-of-range
// IDs indicate a corrupt image or a caller bug; both are programming errors,
// not per-sentence failures, so Cost panics rather than returning an error.
func (m *ConnectionMatrix) Cost(rightID, leftID uint16) int16 {
	if int(leftID) >= m.numLeft || int(rightID) >= m.numRight {
		panic("kotoba: connection matrix index out of range")
	}
	return m.costs[int(rightID)*m.numLeft+int(leftID)]
}
