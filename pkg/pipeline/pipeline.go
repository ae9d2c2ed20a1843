// Package pipeline renders greeting cards: background + title + message in
// every requested style, saved per user.
//
// The CLI and the HTTP API both go through a [Runner], so validation,
// caching, logging and file naming behave the same everywhere.
//
// # Stages
//
//  1. Validate: user id, title and style ids are checked before any work
//  2. Load: the background is read and decoded once per request
//  3. Layout: font sizes and line positions are computed once per request
//  4. Render: each style draws the shared layout and is saved as
//     {output}/{user}/{background stem}_{style}.png
//
// Styles render in parallel, bounded by [Runner.Concurrency].
//
// # Failure Policy
//
// By default a batch is fail-fast: the first style that fails cancels the
// rest and its error is returned. With best effort enabled every style is
// attempted; the result lists the cards that were saved and the error joins
// one entry per failed style. Layout never fails because a title is too
// long: the search bottoms out at the minimum size.
//
// # Usage
//
//	runner := pipeline.NewRunner(store, nil, logger)
//	res, err := runner.CreateCards(ctx, pipeline.Request{
//	    UserID:     "42",
//	    Background: "assets/previews/bg1.jpg",
//	    Title:      "С Новым годом!",
//	    Message:    "Счастья и здоровья",
//	})
//	for _, card := range res.Cards {
//	    fmt.Println(card.Path)
//	}
package pipeline

import (
	"strings"
	"time"

	"github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/render/layout"
)

// Request describes the cards to create.
type Request struct {
	UserID     string
	Background string   // path to the background image
	Title      string   // resolved title text
	Message    string   // empty for a title-only card
	Styles     []string // style ids; empty means every style in the table
	BestEffort bool     // attempt every style even after failures
}

// Validate checks the fields that do not need the style table.
func (r Request) Validate() error {
	if err := errors.ValidateUserID(r.UserID); err != nil {
		return err
	}
	if r.Background == "" {
		return errors.New(errors.ErrCodeInvalidInput, "background cannot be empty")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "title cannot be empty")
	}
	return nil
}

// Card is one saved image.
type Card struct {
	StyleID string `json:"style"`
	Path    string `json:"path"`
	Cached  bool   `json:"cached"`
}

// Result is the outcome of a batch.
type Result struct {
	Cards     []Card        // saved cards in style table order
	Requested int           // number of styles the batch attempted
	Layout    layout.Layout // the shared layout
	Stats     Stats
}

// Stats reports where time went.
type Stats struct {
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
	CacheHits  int
}
