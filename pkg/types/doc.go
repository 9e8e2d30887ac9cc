// Package types defines the Account entity, the checklist engine, wire-row
// normalization, the Adapter interface, and the standard errors for the
// funnel pipeline store.
package types
