package typeref_test

import (
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/pkg/typeref"
)

type owner struct {
	Pets []pet
}

type pet struct {
	Owner *owner
}

type generic[T any] struct {
	Item T
}

// --- Kind tests ---

func TestKindOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		typ  reflect.Type
		want typeref.Kind
	}{
		{reflect.TypeFor[string](), typeref.Text},
		{reflect.TypeFor[*string](), typeref.Text},
		{reflect.TypeFor[int64](), typeref.Numeric},
		{reflect.TypeFor[float32](), typeref.Numeric},
		{reflect.TypeFor[bool](), typeref.Boolean},
		{reflect.TypeFor[time.Time](), typeref.Temporal},
		{reflect.TypeFor[*time.Time](), typeref.Temporal},
		{reflect.TypeFor[[]int](), typeref.List},
		{reflect.TypeFor[[3]string](), typeref.List},
		{reflect.TypeFor[owner](), typeref.Object},
		{reflect.TypeFor[map[string]int](), typeref.Object},
		{reflect.TypeFor[io.Reader](), typeref.Object},
		{reflect.TypeFor[any](), typeref.Unknown},
		{reflect.TypeFor[chan int](), typeref.Unknown},
		{nil, typeref.Unknown},
	}

	for _, tc := range cases {
		name := "nil"
		if tc.typ != nil {
			name = tc.typ.String()
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, typeref.KindOf(tc.typ))
		})
	}
}

func TestKind_TerminalName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "String", typeref.Text.TerminalName())
	require.Equal(t, "Number", typeref.Numeric.TerminalName())
	require.Equal(t, "Boolean", typeref.Boolean.TerminalName())
	require.Equal(t, "Date", typeref.Temporal.TerminalName())
	require.Equal(t, "Array", typeref.List.TerminalName())
	require.Equal(t, "Object", typeref.Object.TerminalName())
	require.True(t, typeref.Temporal.Primitive())
	require.False(t, typeref.List.Primitive())
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	require.True(t, typeref.IsTerminal(reflect.TypeFor[int]()))
	require.True(t, typeref.IsTerminal(reflect.TypeFor[time.Time]()))
	require.True(t, typeref.IsTerminal(reflect.TypeFor[[]owner]()))
	require.False(t, typeref.IsTerminal(reflect.TypeFor[*owner]()))
	require.True(t, typeref.IsEmptyInterface(reflect.TypeFor[any]()))
	require.False(t, typeref.IsEmptyInterface(reflect.TypeFor[io.Reader]()))
}

// --- Resolver tests ---

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	ownerType := reflect.TypeFor[owner]()

	t.Run("direct", func(t *testing.T) {
		t.Parallel()

		res, err := typeref.NewResolver().Resolve(ownerType, typeref.For[pet]())
		require.NoError(t, err)
		require.Equal(t, reflect.TypeFor[pet](), res.Type)
		require.Equal(t, typeref.Object, res.Kind)
		require.Equal(t, "pet", res.Name())
	})

	t.Run("array of deferred", func(t *testing.T) {
		t.Parallel()

		calls := 0
		ref := typeref.Array(typeref.Deferred(func() typeref.Ref {
			calls++
			return typeref.For[pet]()
		}))

		res, err := typeref.NewResolver().Resolve(ownerType, ref)
		require.NoError(t, err)
		require.Equal(t, typeref.List, res.Kind)
		require.Equal(t, reflect.TypeFor[[]pet](), res.Type)
		require.NotNil(t, res.Elem)
		require.Equal(t, typeref.Object, res.Elem.Kind)
		require.Equal(t, 1, calls)
		require.Equal(t, "Array", res.Name())
	})

	t.Run("direct slice carries element", func(t *testing.T) {
		t.Parallel()

		res, err := typeref.NewResolver().Resolve(ownerType, typeref.For[[]time.Time]())
		require.NoError(t, err)
		require.Equal(t, typeref.Temporal, res.Elem.Kind)
	})

	t.Run("callback is not invoked on construction", func(t *testing.T) {
		t.Parallel()

		called := false
		_ = typeref.Deferred(func() typeref.Ref {
			called = true
			return typeref.For[int]()
		})
		require.False(t, called)
	})

	t.Run("circular pair resolves in both directions", func(t *testing.T) {
		t.Parallel()

		r := typeref.NewResolver()
		petType := reflect.TypeFor[pet]()
		toPet := typeref.Deferred(func() typeref.Ref { return typeref.For[pet]() })
		toOwner := typeref.Deferred(func() typeref.Ref { return typeref.For[owner]() })

		res, err := r.Resolve(ownerType, typeref.Array(toPet))
		require.NoError(t, err)
		require.Equal(t, petType, res.Elem.Type)

		res, err = r.Resolve(petType, toOwner)
		require.NoError(t, err)
		require.Equal(t, ownerType, res.Type)

		require.False(t, r.InProgress(ownerType))
		require.False(t, r.InProgress(petType))
	})

	t.Run("synchronous self reference fails", func(t *testing.T) {
		t.Parallel()

		r := typeref.NewResolver()
		var self typeref.Ref
		self = typeref.Deferred(func() typeref.Ref {
			_, err := r.Resolve(ownerType, self)
			require.ErrorIs(t, err, typeref.ErrCircularResolution)
			return typeref.For[int]()
		})

		res, err := r.Resolve(ownerType, self)
		require.NoError(t, err)
		require.Equal(t, typeref.Numeric, res.Kind)
	})

	t.Run("nested resolution of another owner is allowed", func(t *testing.T) {
		t.Parallel()

		r := typeref.NewResolver()
		petType := reflect.TypeFor[pet]()
		ref := typeref.Deferred(func() typeref.Ref {
			inner, err := r.Resolve(petType, typeref.Deferred(func() typeref.Ref {
				return typeref.For[owner]()
			}))
			require.NoError(t, err)
			return typeref.Of(inner.Type)
		})

		res, err := r.Resolve(ownerType, ref)
		require.NoError(t, err)
		require.Equal(t, ownerType, res.Type)
	})

	t.Run("marker cleared after panic", func(t *testing.T) {
		t.Parallel()

		r := typeref.NewResolver()
		boom := typeref.Deferred(func() typeref.Ref { panic("boom") })

		require.Panics(t, func() { _, _ = r.Resolve(ownerType, boom) })
		require.False(t, r.InProgress(ownerType))

		_, err := r.Resolve(ownerType, typeref.Deferred(func() typeref.Ref { return typeref.For[string]() }))
		require.NoError(t, err)
	})

	t.Run("endless deferred chain fails", func(t *testing.T) {
		t.Parallel()

		var loop typeref.Ref
		loop = typeref.Deferred(func() typeref.Ref { return loop })

		_, err := typeref.NewResolver().Resolve(ownerType, loop)
		require.ErrorIs(t, err, typeref.ErrCircularResolution)
	})

	t.Run("nil reference", func(t *testing.T) {
		t.Parallel()

		_, err := typeref.NewResolver().Resolve(ownerType, typeref.Deferred(func() typeref.Ref { return nil }))
		require.ErrorIs(t, err, typeref.ErrUnresolvedType)

		_, err = typeref.NewResolver().Resolve(ownerType, nil)
		require.ErrorIs(t, err, typeref.ErrUnresolvedType)
	})
}

// --- Lazy tests ---

func TestLazy(t *testing.T) {
	t.Parallel()

	ownerType := reflect.TypeFor[owner]()

	t.Run("direct refs are memoized", func(t *testing.T) {
		t.Parallel()

		l := typeref.NewLazy(typeref.NewResolver(), ownerType, "Pets", typeref.For[[]pet]())
		require.False(t, l.Deferred())
		require.Equal(t, typeref.List, l.Kind())

		a, err := l.Resolve()
		require.NoError(t, err)
		b, err := l.Resolve()
		require.NoError(t, err)
		require.Same(t, a.Elem, b.Elem)
	})

	t.Run("deferred refs run once per read", func(t *testing.T) {
		t.Parallel()

		calls := 0
		l := typeref.NewLazy(typeref.NewResolver(), ownerType, "Pets", typeref.Deferred(func() typeref.Ref {
			calls++
			return typeref.For[pet]()
		}))
		require.True(t, l.Deferred())
		require.Equal(t, 0, calls)

		_, err := l.Resolve()
		require.NoError(t, err)
		_, err = l.Resolve()
		require.NoError(t, err)
		require.Equal(t, 2, calls)
	})

	t.Run("errors name the member", func(t *testing.T) {
		t.Parallel()

		r := typeref.NewResolver()
		var l *typeref.Lazy
		var inner error
		l = typeref.NewLazy(r, ownerType, "Pets", typeref.Deferred(func() typeref.Ref {
			_, inner = l.Resolve()
			return typeref.For[pet]()
		}))

		_, err := l.Resolve()
		require.NoError(t, err)

		var circular *typeref.CircularResolutionError
		require.ErrorAs(t, inner, &circular)
		require.Equal(t, "Pets", circular.Member)
		require.Equal(t, ownerType, circular.Owner)

		_, err = typeref.NewLazy(r, ownerType, "Toy", typeref.Deferred(func() typeref.Ref { return nil })).Resolve()
		var unresolved *typeref.UnresolvedTypeError
		require.ErrorAs(t, err, &unresolved)
		require.Equal(t, "Toy", unresolved.Member)
	})
}

// --- GenericTypeBinding tests ---

func TestGenericTypeBinding(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		b := typeref.Bind[generic[pet]](reflect.TypeFor[pet]()).WithRoot("/pets")
		require.NoError(t, b.Validate())
		require.Equal(t, reflect.TypeFor[pet](), b.Entity())
		require.Contains(t, b.Key(), "@/pets")
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		require.ErrorIs(t, typeref.GenericTypeBinding{}.Validate(), typeref.ErrInvalidBinding)
		require.ErrorIs(t, typeref.Bind[owner](reflect.TypeFor[pet]()).Validate(), typeref.ErrInvalidBinding)
		require.ErrorIs(t, typeref.Bind[generic[pet]]().Validate(), typeref.ErrInvalidBinding)
		require.ErrorIs(t, typeref.Bind[generic[pet]](nil).Validate(), typeref.ErrInvalidBinding)
	})
}
