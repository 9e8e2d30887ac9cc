// Package funnel carries module-level metadata for the funnel pipeline store.
package funnel

// Version is the semantic version of the funnel module.
const Version = "0.1.0"
