// Package ui holds the color themes shared by the CLI, the usage text and
// the dashboard. Presentation packages read colors through it so that
// --no-color and NO_COLOR are honored in one place.
package ui
