package mesh

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/voxelmca/errs"
)

func TestDecode_TriangleFace(t *testing.T) {
	src := strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	tris, err := decode(src)
	require.NoError(t, err)
	require.Len(t, tris, 1)
	assert.Equal(t, float32(1), tris[0].V[1].X())
}

func TestDecode_QuadFanTriangulatesIntoTwo(t *testing.T) {
	src := strings.NewReader("v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n")
	tris, err := decode(src)
	require.NoError(t, err)
	assert.Len(t, tris, 2)
}

func TestDecode_FaceWithTextureAndNormalIndices(t *testing.T) {
	src := strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1 2/2/1 3/3/1\n")
	tris, err := decode(src)
	require.NoError(t, err)
	require.Len(t, tris, 1)
}

func TestDecode_EmptyFileYieldsEmptyMesh(t *testing.T) {
	tris, err := decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tris)
}

func TestDecode_CommentsAndBlankLinesIgnored(t *testing.T) {
	src := strings.NewReader("# a comment\n\nv 0 0 0\nv 1 0 0\nv 0 1 0\n\nf 1 2 3\n")
	tris, err := decode(src)
	require.NoError(t, err)
	assert.Len(t, tris, 1)
}

func TestDecode_FaceReferencingMissingVertexIsError(t *testing.T) {
	src := strings.NewReader("v 0 0 0\nf 1 2 3\n")
	_, err := decode(src)
	require.Error(t, err)
}

func TestLoad_MissingFileIsInputError(t *testing.T) {
	_, err := Load("/nonexistent/path/does/not/exist.obj")
	require.Error(t, err)
	kind, ok := errs.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errs.KindInput, kind)
}
