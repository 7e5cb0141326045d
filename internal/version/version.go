// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.4.0"

// Milestones:
// 0.4.0 - LED matrix streaming over MQTT, stats events
// 0.3.0 - Desktop window, SVG frame export
// 0.2.0 - Constellations, GIF/PNG export, YAML config
// 0.1.0 - Initial release: drifting stars and vignette in the terminal
