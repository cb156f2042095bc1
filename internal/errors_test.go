package internal_test

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/annotation"
)

// --- Error tests ---

func TestRouteConflictError(t *testing.T) {
	t.Parallel()

	err := &internal.RouteConflictError{
		Method: http.MethodGet,
		Path:   "/animal/:id",
		First:  "a.AnimalController.Show",
		Second: "a.AnimalController.Rename",
	}
	require.Equal(t, "routekit: route conflict: GET /animal/:id is declared by a.AnimalController.Show and a.AnimalController.Rename", err.Error())
	require.ErrorIs(t, fmt.Errorf("boot: %w", err), internal.ErrRouteConflict)
	require.NotErrorIs(t, err, internal.ErrBindingResolution)

	var conflict *internal.RouteConflictError
	require.True(t, errors.As(fmt.Errorf("boot: %w", err), &conflict))
	require.Equal(t, "/animal/:id", conflict.Path)
}

func TestBindingResolutionError(t *testing.T) {
	t.Parallel()

	t.Run("with parameter", func(t *testing.T) {
		t.Parallel()

		err := &internal.BindingResolutionError{
			Controller: reflect.TypeFor[AnimalController](),
			Action:     "Show",
			Parameter:  "id",
			Reason:     "path has no placeholder :id",
		}
		require.Equal(t, "routekit: cannot bind internal_test.AnimalController.Show parameter id: path has no placeholder :id", err.Error())
		require.ErrorIs(t, err, internal.ErrBindingResolution)
	})

	t.Run("without parameter", func(t *testing.T) {
		t.Parallel()

		err := &internal.BindingResolutionError{Action: "Show", Reason: "placeholder :id is not bound to a parameter"}
		require.Equal(t, "routekit: cannot bind <nil>.Show: placeholder :id is not bound to a parameter", err.Error())
	})
}

func TestInvalidAnnotationPlacementError(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeFor[AnimalController]()

	t.Run("kind not allowed", func(t *testing.T) {
		t.Parallel()

		err := &internal.InvalidAnnotationPlacementError{
			Type:      typ,
			Member:    "Show",
			Namespace: "route.root",
			Kind:      annotation.KindMethod,
		}
		require.Contains(t, err.Error(), `annotation "route.root" is not allowed on`)
		require.Contains(t, err.Error(), "internal_test.AnimalController.Show")
		require.ErrorIs(t, err, internal.ErrInvalidAnnotationPlacement)
	})

	t.Run("parameter with reason", func(t *testing.T) {
		t.Parallel()

		err := &internal.InvalidAnnotationPlacementError{
			Type:      typ,
			Member:    "Show",
			Namespace: "bind",
			Kind:      annotation.KindParameter,
			Index:     4,
			Reason:    "no such parameter",
		}
		require.Contains(t, err.Error(), "internal_test.AnimalController.Show[4]: no such parameter")
	})
}

func TestTypeErrors(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, &internal.UnresolvedTypeError{}, internal.ErrUnresolvedType)
	require.ErrorIs(t, &internal.CircularResolutionError{}, internal.ErrCircularResolution)
}
