package internal_test

import (
	"bytes"
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/routekit/internal"
)

func animalTable(t *testing.T) *internal.Table {
	t.Helper()

	e, reg := newEngine(t)
	annotateAnimals(reg)
	table, err := e.Build(context.Background(), internal.Controllers(reflect.TypeFor[AnimalController]()))
	require.NoError(t, err)
	return table
}

// --- Table tests ---

func TestTable(t *testing.T) {
	t.Parallel()

	t.Run("build", func(t *testing.T) {
		t.Parallel()

		table := animalTable(t)
		require.NotEqual(t, uuid.Nil, table.ID)
		require.False(t, table.CreatedAt.IsZero())
		require.Equal(t, 6, table.Len())
		require.Equal(t, []string{
			"POST /animal",
			"POST /animal/:id/feed",
			"GET /health",
			"GET /animal",
			"GET /animal/search",
			"GET /animal/:id",
		}, paths(table.Routes()))
	})

	t.Run("routes returns a copy", func(t *testing.T) {
		t.Parallel()

		table := animalTable(t)
		routes := table.Routes()
		routes[0] = nil
		require.NotNil(t, table.Routes()[0])
	})

	t.Run("lookup", func(t *testing.T) {
		t.Parallel()

		table := animalTable(t)
		r, ok := table.Lookup("get", "animal/:id/")
		require.True(t, ok)
		require.Equal(t, "Show", r.Action)
		require.Equal(t, []string{"id"}, r.Placeholders())

		_, ok = table.Lookup("DELETE", "/animal/:id")
		require.False(t, ok)
	})

	t.Run("match prefers literal segments", func(t *testing.T) {
		t.Parallel()

		table := animalTable(t)
		r, params, ok := table.Match("GET", "/animal/search")
		require.True(t, ok)
		require.Equal(t, "Search", r.Action)
		require.Empty(t, params)

		r, params, ok = table.Match("GET", "/animal/42")
		require.True(t, ok)
		require.Equal(t, "Show", r.Action)
		require.Equal(t, map[string]string{"id": "42"}, params)

		r, params, ok = table.Match("post", "/animal/7/feed")
		require.True(t, ok)
		require.Equal(t, "Feed", r.Action)
		require.Equal(t, map[string]string{"id": "7"}, params)
	})

	t.Run("match misses", func(t *testing.T) {
		t.Parallel()

		table := animalTable(t)
		_, _, ok := table.Match("GET", "/animal/42/feed")
		require.False(t, ok)
		_, _, ok = table.Match("PUT", "/animal/42")
		require.False(t, ok)
	})

	t.Run("write yaml", func(t *testing.T) {
		t.Parallel()

		table := animalTable(t)
		var buf bytes.Buffer
		require.NoError(t, table.WriteYAML(&buf))

		var doc struct {
			ID     string `yaml:"id"`
			Routes []struct {
				Method        string `yaml:"method"`
				Path          string `yaml:"path"`
				Action        string `yaml:"action"`
				Authorization string `yaml:"authorization"`
				Bindings      []struct {
					Parameter string            `yaml:"parameter"`
					Source    string            `yaml:"source"`
					Key       string            `yaml:"key"`
					Fields    map[string]string `yaml:"fields"`
				} `yaml:"bindings"`
			} `yaml:"routes"`
		}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
		require.Equal(t, table.ID.String(), doc.ID)
		require.Len(t, doc.Routes, 6)

		create := doc.Routes[0]
		require.Equal(t, "POST", create.Method)
		require.Equal(t, "/animal", create.Path)
		require.Equal(t, "internal_test.AnimalController.Create", create.Action)
		require.Equal(t, "default", create.Authorization)
		require.Len(t, create.Bindings, 2)
		require.Equal(t, "body", create.Bindings[1].Source)
		require.Equal(t, "readonly", create.Bindings[1].Fields["Owner"])
		require.Equal(t, "writeonly any(role:admin)", create.Bindings[1].Fields["Secret"])

		show := doc.Routes[5]
		require.Equal(t, "/animal/:id", show.Path)
		require.Equal(t, "path", show.Bindings[1].Source)
		require.Equal(t, "id", show.Bindings[1].Key)
	})
}
