// Command sobel writes the Sobel edge map of an image, computed by a fixed
// number of worker goroutines.
//
// Usage:
//
//	sobel <input_path> <output_path> <thread_count> [flags]
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "sobel:", err)
		os.Exit(1)
	}
}
