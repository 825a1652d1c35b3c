// Package filter implements the fixed 3x3 gradient operators used for edge
// detection.
//
// Kernels are plain named values (see SobelX, SobelY) grouped into an
// Operator, so the convolution code never embeds kernel constants and an
// alternative operator can be passed in without touching the worker loop.
//
// Only one color channel of the source is sampled per pixel. This mirrors the
// output of earlier releases, which read the red channel and did not convert
// to luminance; pick a different Channel to sample green or blue.
package filter
