// Package catalog resolves a detected intent to the best-matching canvas
// template from a set of precedence-ordered providers. Providers load
// template documents from embedded assets, a local directory, or memory;
// the manager aggregates them into one deterministic index and ranks
// candidates with a fixed scoring function, recording a full trace of every
// decision for diagnostics.
package catalog
