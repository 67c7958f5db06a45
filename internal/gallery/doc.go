// Package gallery lists the example survey assets and tracks their view
// counts.
package gallery
