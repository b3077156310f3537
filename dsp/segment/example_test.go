package segment_test

import (
	"fmt"

	"github.com/cwbudde/eegprep/dsp/segment"
)

func ExampleSegmenter_All() {
	trial := [][]float64{
		{0, 1, 2, 3, 4, 5, 6},
		{10, 11, 12, 13, 14, 15, 16},
	}

	s, err := segment.New(trial, 3)
	if err != nil {
		panic(err)
	}

	fmt.Println("count:", s.Count())

	for i, w := range s.All() {
		fmt.Println(i, w[0], w[1])
	}
	// Output:
	// count: 2
	// 0 [0 1 2] [10 11 12]
	// 1 [3 4 5] [13 14 15]
}
