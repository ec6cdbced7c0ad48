package wiring_test

import (
	"context"
	"os"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"

	"github.com/shihabhasan/nextflow/internal/app"
	_ "github.com/shihabhasan/nextflow/internal/wiring"
)

func TestAppWiring(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { require.NoError(t, os.Chdir(cwd)) }()

	require.NoError(t, os.Chdir(t.TempDir()))

	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
