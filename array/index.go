package array

// MaxLen is the largest length an Array may reach; indexes run below it.
const MaxLen = 1 << 24

// Selector picks the element or range an element reference or assignment
// addresses. It is implemented by Index and StartLen only.
type Selector interface {
	selector()
}

// Index addresses a single element. Negative values count from the end.
type Index int64

// StartLen addresses Len elements beginning at Start. A negative Start counts
// from the end.
type StartLen struct {
	Start int64
	Len   int64
}

func (Index) selector()    {}
func (StartLen) selector() {}

// normalize turns a signed offset into a buffer position for a buffer of
// the given length. Non-negative offsets pass through and may lie past the
// end. Negative offsets count back from the end; reaching before the first
// element is an *IndexTooSmallError.
func normalize(offset int64, length int) (int, error) {
	n := int64(length)
	if offset >= 0 {
		if offset >= MaxLen {
			return 0, &IndexTooBigError{Index: offset}
		}
		return int(offset), nil
	}
	if offset < -n {
		return 0, &IndexTooSmallError{Index: offset, Minimum: -n}
	}
	return int(n + offset), nil
}
