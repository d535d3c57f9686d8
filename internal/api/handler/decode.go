package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/services/player"
)

// decodeJSON decodes the request body into v. An empty body leaves v untouched
// when optional is set.
func decodeJSON(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) && optional {
		return nil
	}
	if err != nil {
		return NewInvalidRequestError("invalid request body")
	}
	return nil
}

// requireSession rejects callers that have not started a guest or auth session
func requireSession(p *player.Player) error {
	if p.Session.Mode() == model.ModeNone {
		return NewSessionRequiredError()
	}
	return nil
}
