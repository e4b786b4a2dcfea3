// Package keypath provides composable, typed accessors from one data shape to a
// value nested inside it. Paths carry explicit Shape identifiers for both ends
// so chains can be checked when they are composed instead of when they run.
package keypath
