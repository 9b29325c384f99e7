// Package preflight validates the environment before a pipeline run:
// working repository access, publishing credentials, configured upstream
// sources, and their reachability. The status command renders the results.
package preflight
