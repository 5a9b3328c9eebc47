// Package engine turns a roster and an exercise catalog into a Blueprint.
//
// The pipeline runs in two phases. Per-client filtering and scoring fan out on
// a bounded worker group and meet at a barrier. Blocks are then processed one
// at a time in template order (merge, slot allocation, assignment) because
// each block depends on what earlier blocks already assigned.
package engine
