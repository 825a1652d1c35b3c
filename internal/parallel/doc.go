// Package parallel runs the edge-detection convolution over a fixed group of
// worker goroutines.
//
// Interior rows 1..H-2 are striped across T workers: row r belongs to worker
// (r-1) mod T. Results reach the shared output buffer through one of two
// disciplines:
//
//   - LockedStore guards the whole buffer with a single mutex. It stays
//     correct even if the partition were broken, at the cost of contention.
//   - Stripes hands each worker a Stripe holding only the row views it owns.
//     Split builds the stripes once, up front, and refuses any partition in
//     which two workers would share a row, so there is nothing to lock.
//
// Both disciplines produce identical output for the same input and worker
// count.
package parallel
