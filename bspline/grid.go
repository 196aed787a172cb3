package bspline

// lattice indexes the tensor-product control-point grid in row-major order,
// with dimension 0 varying slowest. The flat index of a grid point is the
// column of its basis function in the design matrix and the position of its
// coefficient in the solved vector.
type lattice struct {
	dims    []int
	strides []int
	size    int
}

func newLattice(dims []int) lattice {
	strides := make([]int, len(dims))
	size := 1
	for d := len(dims) - 1; d >= 0; d-- {
		strides[d] = size
		size *= dims[d]
	}
	return lattice{dims: dims, strides: strides, size: size}
}

// index flattens per-dimension grid coordinates.
func (l lattice) index(coords []int) int {
	idx := 0
	for d, c := range coords {
		idx += c * l.strides[d]
	}
	return idx
}

// coord extracts the d-th grid coordinate of a flat index.
func (l lattice) coord(flat, d int) int {
	return flat / l.strides[d] % l.dims[d]
}
