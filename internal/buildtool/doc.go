// Package buildtool invokes the external font build toolchain that turns
// fetched UFO sources into TTF binaries. The toolchain is opaque; this
// package only runs it in the right directory with its dependency manifest
// present and propagates failure.
package buildtool
