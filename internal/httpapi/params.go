package httpapi

import (
	"net/http"
	"strconv"

	"github.com/diplomat-ls/diplomat/internal/query"
	"github.com/diplomat-ls/diplomat/pkg/apierr"
)

// positionQuery parses the path/line/character query parameters shared by
// the definition, references and completion endpoints.
func positionQuery(r *http.Request) (path string, pos query.Position, err *apierr.Error) {
	path = r.URL.Query().Get("path")
	if path == "" {
		return "", query.Position{}, apierr.InvalidRequestBody()
	}
	line, lineErr := strconv.Atoi(r.URL.Query().Get("line"))
	character, charErr := strconv.Atoi(r.URL.Query().Get("character"))
	if lineErr != nil || charErr != nil || line < 0 || character < 0 {
		return "", query.Position{}, apierr.InvalidRequestBody()
	}
	return path, query.Position{Line: line, Character: character}, nil
}

func position(line, character int) query.Position {
	return query.Position{Line: line, Character: character}
}

func idParam(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
