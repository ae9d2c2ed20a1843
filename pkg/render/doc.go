// Package render groups the card rendering stages.
//
//   - render/layout picks font sizes and line breaks for a title and a message.
//   - render/styles holds the colour styles a card is rendered in.
//   - render/sink draws a computed layout onto a background and encodes PNG.
//
// A layout depends only on the background size, the fonts and the text, so
// one layout is computed per request and shared by every style.
package render
