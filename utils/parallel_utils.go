package utils

// PartitionMap splits an index range [0, MaxIndex) into ParallelDegree
// contiguous buckets for data-parallel loops over elements.
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	if ParallelDegree < 1 {
		ParallelDegree = 1
	}
	if ParallelDegree > maxIndex {
		ParallelDegree = maxIndex
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	var (
		Npart    = pm.MaxIndex / pm.ParallelDegree
		startAdd = pm.MaxIndex % pm.ParallelDegree
	)
	// The remainder is spread over the first buckets, one extra index each
	if threadNum < startAdd {
		bucket[0] = threadNum * (Npart + 1)
		bucket[1] = bucket[0] + Npart + 1
	} else {
		bucket[0] = startAdd*(Npart+1) + (threadNum-startAdd)*Npart
		bucket[1] = bucket[0] + Npart
	}
	return
}

func (pm *PartitionMap) GetBucketRange(threadNum int) (min, max int) {
	min, max = pm.Partitions[threadNum][0], pm.Partitions[threadNum][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(threadNum int) (dim int) {
	dim = pm.Partitions[threadNum][1] - pm.Partitions[threadNum][0]
	return
}
