package utils

type Index []int

func NewIndex(N int) (I Index) {
	I = make(Index, N)
	return
}

func NewRange(min, max int) (I Index) { // half open range [min, max)
	I = make(Index, max-min)
	for i := range I {
		I[i] = i + min
	}
	return
}

// Complement returns the sorted indices in [0, N) not present in I. I must be
// sorted ascending.
func (I Index) Complement(N int) (C Index) {
	C = make(Index, 0, N-len(I))
	var j int
	for i := 0; i < N; i++ {
		if j < len(I) && I[j] == i {
			j++
			continue
		}
		C = append(C, i)
	}
	return
}
