// Package layout positions a card's title and message on a background.
//
// # Overview
//
// Given the background dimensions, a title and an optional message, [Compute]
// decides:
//
//   - the text column width ([MaxWidth]): 80% of the image width for
//     portrait backgrounds, 55% for square and landscape ones
//   - the title font size and its 1–2 lines ([FitTitle])
//   - the message font size (70% of the resolved title size) and its lines
//     ([Wrap])
//   - where each line goes: every line is centered horizontally on its own
//     width and the whole block is centered vertically
//
// The package never draws anything. Text measurement goes through the
// [Face] and [FaceSource] interfaces, implemented by pkg/fonts for real
// rendering and by small fakes in tests.
//
// # Title Fitting
//
// [FitTitle] walks font sizes downward from a start size in steps of
// [TitleSizeStep] and accepts the first size at which the title fits in at
// most two lines. Titles of [ShortTitleWords] words or fewer are never
// split. Split points are tried left to right and the first one where both
// halves fit wins, which is not necessarily the most balanced split. When no
// size fits, the title is kept whole at the minimum size and allowed to
// overflow.
//
// # Vertical Placement
//
// The block height counts title lines, message lines and a [BlockGap] when a
// message exists. A second [BlockGap] is inserted between title and message
// while drawing but is not part of the centering offset, so blocks with a
// message sit slightly below center.
//
// # Determinism
//
// All functions are pure: the same inputs always produce the same sizes,
// line breaks and positions.
package layout
