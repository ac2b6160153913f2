package utils

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Test PartitionMap
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				kMin, kMax := pm.GetBucketRange(np)
				histo[kMax-kMin]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		assert.Equal(t, 287, getTotal(getHisto(287, 32)))
		for n := 64; n < 10000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Partitions tile the index range in order
		pm := NewPartitionMap(4, 10)
		assert.Equal(t, [][2]int{{0, 3}, {3, 6}, {6, 8}, {8, 10}}, pm.Partitions)
	}
	{ // A non positive degree degrades to serial
		pm := NewPartitionMap(0, 7)
		assert.Equal(t, 1, pm.ParallelDegree)
		assert.Equal(t, [2]int{0, 7}, pm.Partitions[0])
	}
}

func TestForEachBucket(t *testing.T) {
	for _, np := range []int{1, 3, 8, 20} {
		var (
			n       = 17
			visits  = make([]int32, n)
			buckets int32
		)
		pm := NewPartitionMap(np, n)
		pm.ForEachBucket(func(bn, kMin, kMax int) {
			atomic.AddInt32(&buckets, 1)
			for k := kMin; k < kMax; k++ {
				atomic.AddInt32(&visits[k], 1)
			}
		})
		assert.Equal(t, int32(np), buckets)
		for k := range visits {
			assert.Equal(t, int32(1), visits[k], "index %d with %d partitions", k, np)
		}
	}
}
