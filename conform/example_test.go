// SPDX-License-Identifier: EPL-2.0

package conform_test

import (
	"context"
	"fmt"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/conform"
)

func ExampleConform() {
	// One second of stereo silence at 44.1 kHz
	buf, _ := audio.NewBuffer(44100, [][]float32{make([]float32, 44100), make([]float32, 44100)})

	out, err := conform.Conform(context.Background(), buf, 22050, 1)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(out.SampleRate(), out.Channels(), out.Frames())
	// Output: 22050 1 22050
}
