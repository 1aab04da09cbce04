// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Assistant panel with answer cache, websocket frame feed, Prometheus metrics
// 0.2.0 - Camera fly-in, inspect popup, planetgen stats enrichment
// 0.1.0 - Initial release: orbit view, asteroid belt, transport bar, headless mode
