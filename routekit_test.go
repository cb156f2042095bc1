package routekit_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit"
	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/crud"
	"github.com/dmitrymomot/routekit/pkg/route"
)

type Widget struct {
	Name string
	ID   int
}

type WidgetController struct{}

func (c *WidgetController) Index(context.Context) ([]Widget, error)    { return nil, nil }
func (c *WidgetController) Show(context.Context, int) (*Widget, error) { return nil, nil }

func init() {
	routekit.Register[WidgetController]()
}

func annotateWidgets(reg *annotation.Registry) {
	typ := routekit.TypeOf[WidgetController]()
	reg.Add(annotation.MethodOf(typ, "Show"), route.Get(":id"), annotation.Params("ctx", "id"))
}

// --- Public API tests ---

func TestRegister(t *testing.T) {
	t.Parallel()

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	require.Contains(t, routekit.DefaultIndex.Types(file), routekit.TypeOf[WidgetController]())
}

func TestDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "shop", "widgets.go")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, os.WriteFile(file, []byte("package shop\n"), 0o600))

	index := routekit.NewControllerIndex()
	index.Add(file, routekit.TypeOf[WidgetController]())

	reg := annotation.NewRegistry()
	annotateWidgets(reg)
	e := routekit.New(routekit.WithRegistry(reg), routekit.WithControllerIndex(index))
	t.Cleanup(func() { _ = e.Close() })

	table, err := e.Build(context.Background(), routekit.Directory(dir))
	require.NoError(t, err)

	r, ok := table.Lookup("GET", "/shop/widget/:id")
	require.True(t, ok)
	require.Equal(t, "Show", r.Action)
	_, ok = table.Lookup("GET", "/shop/widget")
	require.True(t, ok)
}

func TestGenerics(t *testing.T) {
	t.Parallel()

	reg := annotation.NewRegistry()
	e := routekit.New(routekit.WithRegistry(reg), routekit.WithRootPath("/api"))
	t.Cleanup(func() { _ = e.Close() })

	routes, err := e.Generate(context.Background(),
		routekit.Generics(routekit.Bind[crud.Resource[Widget, int]](routekit.TypeOf[Widget](), routekit.TypeOf[int]()).WithRoot("gadgets")),
	)
	require.NoError(t, err)
	require.NotEmpty(t, routes)
	for _, r := range routes {
		require.Contains(t, []string{"/api/gadgets", "/api/gadgets/:id"}, r.Path)
	}
}

func TestNewFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root_path: /v1\ndefault_authorization: public\nlog_level: error\n"), 0o600))

	cfg, err := routekit.LoadConfig(path)
	require.NoError(t, err)

	reg := annotation.NewRegistry()
	annotateWidgets(reg)
	e, err := routekit.NewFromConfig(cfg, routekit.WithRegistry(reg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	table, err := e.Build(context.Background(), routekit.Controllers(routekit.TypeOf[WidgetController]()))
	require.NoError(t, err)

	r, ok := table.Lookup("GET", "/v1/widget/:id")
	require.True(t, ok)
	require.True(t, r.Authorization.IsPublic())

	_, err = routekit.NewFromConfig(routekit.Config{RootPath: "v1"})
	require.ErrorIs(t, err, routekit.ErrInvalidConfig)
}
