// Package pkg holds the libraries behind the postcard CLI and HTTP API.
//
// Data flows through the packages in one direction:
//
//	catalog (backgrounds, occasions)
//	     ↓
//	pipeline.Runner ── cache (none, file, redis)
//	     ↓
//	render/layout → render/sink × render/styles
//	     ↓
//	storage (output/{user}/{background}_{style}.png)
//
// [config] loads postcard.toml and the environment, [fonts] loads TrueType
// faces, [errors] carries machine-readable codes and [observability] exposes
// hooks for logging and metrics.
//
// # Quick Start
//
//	store, _ := storage.NewStore("output")
//	runner := pipeline.NewRunner(store, nil, nil)
//	res, err := runner.CreateCards(ctx, pipeline.Request{
//	    UserID:     "42",
//	    Background: "assets/previews/bg1.jpg",
//	    Title:      "С Новым годом!",
//	    Message:    "Счастья и здоровья",
//	})
package pkg
