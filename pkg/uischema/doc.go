// Package uischema turns untrusted canvas schema documents into validated
// component trees. A schema is a component-kind-tagged tree plus a list of
// output contracts; validation walks it depth-first against an injected
// registry of supported kinds and enforces global component and nesting
// budgets. Any single fault aborts the whole validation so a partially
// valid tree is never handed to a renderer.
package uischema
