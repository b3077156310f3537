package normalize_test

import (
	"fmt"

	"github.com/cwbudde/eegprep/dsp/normalize"
)

func ExampleZScore() {
	out, err := normalize.ZScore([][]float64{{1, 2, 3, 4, 5}})
	if err != nil {
		panic(err)
	}

	for _, v := range out[0] {
		fmt.Printf("%.4f ", v)
	}
	fmt.Println()
	// Output:
	// -1.4142 -0.7071 0.0000 0.7071 1.4142
}
