package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommandRequiresSystemFlag(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--system is required")
}

func TestNewRootCommandRegistersDumpFlags(t *testing.T) {
	root := NewRootCommand()
	for _, name := range []string{"dump-dot", "dump-reggraph", "dump-area", "max-logic-depth", "desc-spmg"} {
		assert.NotNil(t, root.Flags().Lookup(name), "missing flag %q", name)
	}
}
