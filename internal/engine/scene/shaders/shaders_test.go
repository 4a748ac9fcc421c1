package shaders

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/roomview/internal/engine/scenegraph"
)

func TestJointPaletteMatchesSceneGraph(t *testing.T) {
	define := fmt.Sprintf("#define MAX_JOINTS %d", scenegraph.MaxJoints)
	for name, src := range map[string]string{
		"model":   ModelVertexShader,
		"depth":   DepthVertexShader,
		"contact": ContactDepthVertexShader,
	} {
		assert.True(t, strings.Contains(src, define), "%s shader palette", name)
		assert.Equal(t, 1, strings.Count(src, "#version"), "%s shader version line", name)
	}
}
