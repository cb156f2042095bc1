package internal_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/route"
)

type Toy struct {
	Name string
	ID   int
}

type Animal struct {
	Name   string `validate:"required,min=2"`
	Owner  string `authorize:"readonly"`
	Secret string `authorize:"writeonly,roles=admin"`
	Toys   []Toy
	ID     int
}

// AnimalController has no own annotations beyond what each test registers.
type AnimalController struct{}

func (c *AnimalController) Index(context.Context) ([]Animal, error)          { return nil, nil }
func (c *AnimalController) Show(context.Context, int) (*Animal, error)       { return nil, nil }
func (c *AnimalController) Search(context.Context, string) ([]Animal, error) { return nil, nil }
func (c *AnimalController) Feed(context.Context, int, string) error { return nil }
func (c *AnimalController) Create(context.Context, *Animal) (*Animal, error) { return nil, nil }
func (c *AnimalController) Health(context.Context) error { return nil }
func (c *AnimalController) Rename(context.Context, int, string) (*Animal, error) { return nil, nil }

// annotateAnimals registers the usual routes of AnimalController.
func annotateAnimals(reg *annotation.Registry) {
	typ := reflect.TypeFor[AnimalController]()
	reg.Add(annotation.MethodOf(typ, "Show"), route.Get(":id"), annotation.Params("ctx", "id"))
	reg.Add(annotation.MethodOf(typ, "Search"), route.Get("search"), annotation.Params("ctx", "q"))
	reg.Add(annotation.MethodOf(typ, "Feed"), route.Post(":id/feed"), annotation.Params("ctx", "id", "food"))
	reg.Add(annotation.MethodOf(typ, "Create"), route.Post(""))
	reg.Add(annotation.MethodOf(typ, "Health"), route.Get("/health"))
	reg.Add(annotation.MethodOf(typ, "Rename"), route.Ignore())
}

type BaseController struct {
	Version string
	Debug   bool
}

func (c *BaseController) Index(context.Context) ([]Animal, error) { return nil, nil }
func (c *BaseController) Health(context.Context) error { return nil }
func (c *BaseController) Reload(context.Context) error { return nil }

type KennelController struct {
	BaseController
	Version int
	Zone    string
}

// Index has the parent's signature and shadows it.
func (c *KennelController) Index(context.Context) ([]Animal, error) { return nil, nil }

// Health has another signature and is an own method.
func (c *KennelController) Health(context.Context, bool) error { return nil }

func (c *KennelController) Adopt(context.Context, int) error { return nil }

type ShelterController struct {
	BaseController
}

func (ShelterController) Index(context.Context) ([]Animal, error) { return nil, nil }

type Timestamps struct {
	CreatedAt time.Time
}

func (Timestamps) Touch() {}

type Auditor interface {
	Audit(context.Context) error
}

// ZooController embeds a parent followed by two mixins.
type ZooController struct {
	BaseController
	Timestamps
	Auditor
	Name string
}

type Loop struct {
	*Pool
}

type Pool struct {
	*Loop
}

type Payload struct {
	Data any
}

// ReportController returns untyped results.
type ReportController struct{}

func (c *ReportController) Index(context.Context) (any, error) { return nil, nil }

type Owner struct {
	Pets []*Pet
}

type Pet struct {
	Owner *Owner
}

type SecureController struct{}

func (c *SecureController) Read(context.Context) error { return nil }
func (c *SecureController) Write(context.Context) error { return nil }

type AdminController struct {
	SecureController
}

func (c *AdminController) Purge(context.Context) error { return nil }

type HomeController struct{}

func (c *HomeController) Index(context.Context) error { return nil }

type KeeperController struct{}

func (c *KeeperController) Index(context.Context) error { return nil }

type ParrotController struct{}

func (c *ParrotController) Index(context.Context) error { return nil }

type TenantController struct{}

func (c *TenantController) Index(ctx context.Context, tenant string) error { return nil }

// newEngine creates an engine over a fresh registry.
func newEngine(t *testing.T, opts ...internal.Option) (*internal.Engine, *annotation.Registry) {
	t.Helper()

	reg := annotation.NewRegistry()
	e := internal.New(append([]internal.Option{internal.WithRegistry(reg)}, opts...)...)
	t.Cleanup(func() { _ = e.Close() })
	return e, reg
}

func paths(routes []*internal.RouteInfo) []string {
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.Method+" "+r.Path)
	}
	return out
}
