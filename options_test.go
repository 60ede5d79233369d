package chatpipe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyOptions_Defaults(t *testing.T) {
	cfg := applyOptions(nil)

	require.Equal(t, defaultToolName, cfg.toolName)
	require.Empty(t, cfg.toolPath)
	require.False(t, cfg.debug)
	require.Contains(t, cfg.policy, '\r')
}

func TestWithSubstitution_ExtendsDefaultPolicy(t *testing.T) {
	cfg := applyOptions([]Option{WithSubstitution('\t', "    ")})

	require.Equal(t, "    ", cfg.policy['\t'])
	require.Equal(t, "", cfg.policy['\r'])
}

func TestStatus_String(t *testing.T) {
	require.Equal(t, "ready", StatusReady.String())
	require.Equal(t, "working", StatusWorking.String())
	require.Equal(t, "error", StatusError.String())
}
