package filter

import (
	"fmt"
	"strings"
)

// Kernel3 is a 3x3 integer convolution kernel in row-major order:
// Kernel3[dy+1][dx+1] weighs the neighbor at offset (dx, dy).
type Kernel3 [3][3]int

// SobelX approximates the horizontal intensity gradient.
var SobelX = Kernel3{
	{-1, 0, 1},
	{-2, 0, 2},
	{-1, 0, 1},
}

// SobelY approximates the vertical intensity gradient.
var SobelY = Kernel3{
	{1, 2, 1},
	{0, 0, 0},
	{-1, -2, -1},
}

// Transpose returns the kernel mirrored along its main diagonal.
func (k Kernel3) Transpose() Kernel3 {
	var t Kernel3
	for i := range 3 {
		for j := range 3 {
			t[j][i] = k[i][j]
		}
	}
	return t
}

// Sum returns the sum of all weights. Gradient kernels sum to zero, which is
// why uniform regions produce no edge response.
func (k Kernel3) Sum() int {
	s := 0
	for _, row := range k {
		for _, v := range row {
			s += v
		}
	}
	return s
}

// Operator is a pair of gradient kernels combined by Euclidean norm.
type Operator struct {
	Name string
	X    Kernel3
	Y    Kernel3
}

// Sobel is the default edge operator.
var Sobel = Operator{Name: "sobel", X: SobelX, Y: SobelY}

// Channel selects which color channel of an RGB pixel is sampled.
type Channel int

const (
	ChannelRed Channel = iota
	ChannelGreen
	ChannelBlue
)

// String returns the short name used on the command line.
func (c Channel) String() string {
	switch c {
	case ChannelRed:
		return "r"
	case ChannelGreen:
		return "g"
	case ChannelBlue:
		return "b"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// Valid reports whether c is one of the three RGB channels.
func (c Channel) Valid() bool {
	return c >= ChannelRed && c <= ChannelBlue
}

// ParseChannel accepts r/g/b or red/green/blue, case-insensitively.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(s) {
	case "r", "red":
		return ChannelRed, nil
	case "g", "green":
		return ChannelGreen, nil
	case "b", "blue":
		return ChannelBlue, nil
	default:
		return 0, fmt.Errorf("filter: unknown channel %q (want r, g or b)", s)
	}
}
