package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// decodeAndValidate decodes the JSON body into dest and runs struct
// validation. Returns a client-facing message on failure.
func (s *Server) decodeAndValidate(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return errors.New("invalid request body")
	}
	if err := s.validate.Struct(dest); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("field %q failed validation: %s", first.Field(), first.Tag())
		}
		return errors.New("request validation failed")
	}
	return nil
}

// pathID parses the {id} path segment as a UUID
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, errors.New("invalid ID in path")
	}
	return id, nil
}

// parseUUIDParam parses a UUID from a query or body string
func parseUUIDParam(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}

// mustParseUUID parses a UUID already checked by struct validation
func mustParseUUID(raw string) uuid.UUID {
	id, _ := uuid.Parse(raw)
	return id
}

// parseQueryInt reads an integer query parameter with a default
func parseQueryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
