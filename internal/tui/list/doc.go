// Package listview provides a windowed cursor list for Bubble Tea programs.
//
// Only the rows in view are rendered, so View costs the same however many records
// have accumulated. The window knows which slice of items is on screen, which lets the
// gallery map a mouse row back to a record and notice when the last loaded record has
// scrolled into view.
package listview
