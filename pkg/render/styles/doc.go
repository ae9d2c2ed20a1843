// Package styles defines the colour treatments applied to card text.
//
// A [Style] pairs a fill colour with an outline colour and width. Styles live
// in a [Table], an immutable ordered set keyed by style ID. Callers build a
// table once (from [Default] or from configuration data via [NewTable]) and
// inject it where rendering happens; there is no package-level mutable
// registry.
//
// # Default Styles
//
// [Default] returns the seven stock styles, in order:
//
//	blue_bright_white  fuchsia_white  white  santa_red
//	gold               red_big        silver_white
//
// # Outline Widths
//
// Titles are outlined with [Style.StrokeWidth]. Message text uses
// [Style.BodyStrokeWidth], which is two pixels narrower but never below 2.
package styles
