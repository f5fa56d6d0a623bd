package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storeadmin/internal/events"
	"storeadmin/internal/media"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// uuidParam parses the chi URL parameter name as a UUID.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// publish emits e and only logs failures; the write it reports has already
// been committed.
func (app *application) publish(ctx context.Context, e events.Event) {
	if app.events == nil {
		return
	}
	if err := app.events.Publish(ctx, e); err != nil {
		app.logger.Warnw("publish event", "type", e.Type, "store_id", e.StoreID, "error", err)
	}
}

func (app *application) invalidate(ctx context.Context, keys ...string) {
	if err := app.cache.Delete(ctx, keys...); err != nil {
		app.logger.Warnw("cache invalidate", "keys", keys, "error", err)
	}
}

func (app *application) invalidatePattern(ctx context.Context, pattern string) {
	if err := app.cache.DeletePattern(ctx, pattern); err != nil {
		app.logger.Warnw("cache invalidate", "pattern", pattern, "error", err)
	}
}

func (app *application) purgeMedia(publicIDs []string) {
	media.Purge(app.media, app.logger, publicIDs)
}

// healthCheckHandler godoc
//
//	@Summary		Health check
//	@Description	Reports service status, environment and version. Requires basic auth.
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	envelope{data=map[string]string}
//	@Failure		503	{object}	error
//	@Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	data := map[string]string{
		"status":  "ok",
		"env":     app.config.env,
		"version": version,
		"cache":   "disabled",
	}
	if app.cache.Enabled() {
		data["cache"] = "enabled"
	}

	if err := app.store.Ping(ctx); err != nil {
		app.serviceUnavailableResponse(w, r, fmt.Errorf("database unavailable"))
		return
	}

	app.jsonResponse(w, http.StatusOK, data)
}
