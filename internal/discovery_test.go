package internal_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/internal"
)

// writeTree creates empty files below dir.
func writeTree(t *testing.T, dir string, files ...string) {
	t.Helper()

	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("package controllers\n"), 0o600))
	}
}

// --- Directory discovery tests ---

func TestDirectory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("prefixes follow directories", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTree(t, dir,
			"root.go",
			"zoo/animals.go",
			"zoo/animals_test.go",
			"zoo/birds/parrot.go",
			"zoo/testdata/fixture.go",
			"zoo/_drafts/draft.go",
		)

		index := internal.NewControllerIndex()
		index.Add(filepath.Join(dir, "root.go"), reflect.TypeFor[HomeController]())
		index.Add(filepath.Join(dir, "zoo", "animals.go"), reflect.TypeFor[*KeeperController]())
		index.Add(filepath.Join(dir, "zoo", "animals_test.go"), reflect.TypeFor[SecureController]())
		index.Add(filepath.Join(dir, "zoo", "birds", "parrot.go"), reflect.TypeFor[ParrotController]())
		index.Add(filepath.Join(dir, "zoo", "testdata", "fixture.go"), reflect.TypeFor[AdminController]())
		index.Add(filepath.Join(dir, "zoo", "_drafts", "draft.go"), reflect.TypeFor[TenantController]())

		e, _ := newEngine(t, internal.WithControllerIndex(index))
		routes, err := e.Generate(ctx, internal.Directory(dir))
		require.NoError(t, err)
		require.Equal(t, []string{
			"GET /home",
			"GET /zoo/keeper",
			"GET /zoo/birds/parrot",
		}, paths(routes))
	})

	t.Run("root path applies to discovered controllers", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTree(t, dir, "zoo/animals.go")

		index := internal.NewControllerIndex()
		index.Add(filepath.Join(dir, "zoo", "animals.go"), reflect.TypeFor[KeeperController]())

		e, _ := newEngine(t, internal.WithControllerIndex(index), internal.WithRootPath("/api"))
		routes, err := e.Generate(ctx, internal.Directory(dir))
		require.NoError(t, err)
		require.Equal(t, []string{"GET /api/zoo/keeper"}, paths(routes))
	})

	t.Run("files without controllers contribute nothing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTree(t, dir, "plain.go", "README.md")

		e, _ := newEngine(t, internal.WithControllerIndex(internal.NewControllerIndex()))
		routes, err := e.Generate(ctx, internal.Directory(dir))
		require.NoError(t, err)
		require.Empty(t, routes)
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		e, _ := newEngine(t, internal.WithControllerIndex(internal.NewControllerIndex()))
		_, err := e.Generate(ctx, internal.Directory(filepath.Join(t.TempDir(), "missing")))
		require.ErrorIs(t, err, internal.ErrInvalidSource)
	})

	t.Run("same controller from two sources", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTree(t, dir, "home.go")

		index := internal.NewControllerIndex()
		index.Add(filepath.Join(dir, "home.go"), reflect.TypeFor[HomeController]())

		e, _ := newEngine(t, internal.WithControllerIndex(index))
		routes, err := e.Generate(ctx, internal.Directory(dir), internal.Directory(dir))
		require.NoError(t, err)
		require.Equal(t, []string{"GET /home"}, paths(routes))
	})
}

// --- Controller index tests ---

func TestControllerIndex(t *testing.T) {
	t.Parallel()

	t.Run("add deduplicates and dereferences", func(t *testing.T) {
		t.Parallel()

		index := internal.NewControllerIndex()
		index.Add("controllers/home.go", reflect.TypeFor[HomeController](), reflect.TypeFor[*HomeController]())
		index.Add("controllers/./home.go", reflect.TypeFor[ParrotController]())

		require.Equal(t, 1, index.Len())
		require.Equal(t, []reflect.Type{
			reflect.TypeFor[HomeController](),
			reflect.TypeFor[ParrotController](),
		}, index.Types("controllers/home.go"))
	})

	t.Run("add caller records the calling file", func(t *testing.T) {
		t.Parallel()

		index := internal.NewControllerIndex()
		require.NoError(t, index.AddCaller(0, reflect.TypeFor[KeeperController]()))

		_, file, _, ok := runtime.Caller(0)
		require.True(t, ok)
		require.Equal(t, []reflect.Type{reflect.TypeFor[KeeperController]()}, index.Types(file))
	})

	t.Run("unknown file", func(t *testing.T) {
		t.Parallel()

		index := internal.NewControllerIndex()
		require.Empty(t, index.Types("nowhere.go"))
		require.Equal(t, 0, index.Len())
	})
}
