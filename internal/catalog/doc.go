// Package catalog holds the static reference tables the estimator reads:
// per-fluid antioxidant depletion tracks and equipment severity ratings.
//
// Both tables are declarative YAML (embedded under data/, or replaced by a
// file named in config) parsed once at startup into immutable lookup
// structures. Nothing in this package mutates a catalog after construction,
// so catalogs may be shared by any number of goroutines.
package catalog
