// Package catalog lists what a card can be made of: occasions and
// backgrounds.
//
// An [Occasion] supplies a card title and optional stock message texts.
// [Occasions] keeps them in declaration order; [DefaultOccasions] returns the
// four New Year season occasions.
//
// [Backgrounds] is a sorted snapshot of the image files in a directory.
// Backgrounds are addressed by zero-based index or by file name.
package catalog
