package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_UnwrapsWrappedError(t *testing.T) {
	base := Input(errors.New("bad mesh"))
	wrapped := fmt.Errorf("loading: %w", base)

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindInput, kind)
}

func TestKindOf_PlainErrorHasNoKind(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestError_IncludesPathWhenSet(t *testing.T) {
	err := IO("/tmp/out.mca", errors.New("disk full"))
	assert.Contains(t, err.Error(), "/tmp/out.mca")
	assert.Contains(t, err.Error(), "IOError")
}

func TestExitCode_MapsEachKind(t *testing.T) {
	assert.Equal(t, 1, KindInput.ExitCode())
	assert.Equal(t, 1, KindIO.ExitCode())
	assert.Equal(t, 2, KindResource.ExitCode())
	assert.Equal(t, 2, KindInternal.ExitCode())
}
