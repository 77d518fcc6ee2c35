package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalogo-api/internal/middleware"

	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool                         `json:"success"`
	Data    json.RawMessage              `json:"data"`
	Message string                       `json:"message"`
	Error   string                       `json:"error"`
	Details []middleware.ValidationError `json:"details"`
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env), "%s %s", method, path)
	return rec.Code, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func detailFields(env envelope) []string {
	var out []string
	for _, d := range env.Details {
		out = append(out, d.Field)
	}
	return out
}
