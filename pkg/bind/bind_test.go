package bind_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/pkg/annotation"
	"github.com/dmitrymomot/routekit/pkg/bind"
)

func TestDirectives(t *testing.T) {
	t.Parallel()

	require.Equal(t, bind.Directive{Source: bind.SourcePath}, bind.Path().Payload)
	require.Equal(t, bind.Directive{Source: bind.SourcePath, Key: "id"}, bind.Path("id").Payload)
	require.Equal(t, bind.Directive{Source: bind.SourceQuery, Key: "q"}, bind.Query("q").Payload)
	require.Equal(t, bind.Directive{Source: bind.SourceBody}, bind.Body().Payload)
	require.Equal(t, bind.Directive{Source: bind.SourceCustom, Key: "user"}, bind.Custom("user").Payload)

	require.True(t, bind.Body().AllowedOn(annotation.KindParameter))
	require.False(t, bind.Body().AllowedOn(annotation.KindMethod))
}

func TestSource_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "path", bind.SourcePath.String())
	require.Equal(t, "query", bind.SourceQuery.String())
	require.Equal(t, "body", bind.SourceBody.String())
	require.Equal(t, "custom", bind.SourceCustom.String())
	require.Equal(t, "unknown", bind.Source(0).String())

	text, err := bind.SourceBody.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "body", string(text))
}
