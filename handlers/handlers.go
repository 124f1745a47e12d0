// Package handlers contains the fiber HTTP handlers.
package handlers

import (
	"github.com/sirupsen/logrus"

	"app/objectstore"
	"app/pipeline"
	"app/store"
)

// Handler bundles the dependencies the HTTP layer needs. Everything is
// constructed in main and passed in; handlers hold no global state.
type Handler struct {
	store       store.Store
	coordinator *pipeline.Coordinator
	runner      pipeline.Runner
	sink        objectstore.Sink
	log         *logrus.Logger
	horizonDays int
	geminiKey   string
}

// New creates the handler set.
func New(
	st store.Store,
	coordinator *pipeline.Coordinator,
	runner pipeline.Runner,
	sink objectstore.Sink,
	log *logrus.Logger,
	horizonDays int,
	geminiKey string,
) *Handler {
	return &Handler{
		store:       st,
		coordinator: coordinator,
		runner:      runner,
		sink:        sink,
		log:         log,
		horizonDays: horizonDays,
		geminiKey:   geminiKey,
	}
}
