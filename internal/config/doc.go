// Package config loads and validates the glyphpress TOML configuration.
// Defaults target the BabelStone Han UFO repository; a sample config is
// embedded for `glyphpress config init`.
package config
