// Package normalize is the single place where names, identifiers and muscle
// groups are canonicalized before comparison.
//
// Every component that compares an exercise name, a joint, a tag or a muscle
// goes through this package, so "Goblet Squat", "goblet  squat" and
// "GOBLET SQUAT" are the same exercise everywhere in the engine.
package normalize
