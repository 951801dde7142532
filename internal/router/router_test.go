package router

import (
	"net/http"
	"testing"

	"messenger-user-management/internal/cache"
	"messenger-user-management/internal/database"
	"messenger-user-management/internal/events"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestSetupRoutes(t *testing.T) {
	e := echo.New()
	Setup(e, &database.FakeDB{}, &cache.FakeCache{}, &events.FakeNotifier{})

	got := map[string]struct{}{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}

	expected := []string{
		http.MethodGet + " /ping",
		http.MethodPost + " /users",
		http.MethodGet + " /users/:id",
		http.MethodPut + " /users/:id",
		http.MethodDelete + " /users/:id",
	}

	require.Equal(t, len(expected), len(got))
	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}
}
