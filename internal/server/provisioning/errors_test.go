package provisioning

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	base := errors.New("boom")
	e := newError(KindStore, MsgInsertDevice, "", base)

	assert.Equal(t, "StoreError: Failed to insert device into database: boom", e.Error())
	assert.ErrorIs(t, e, base)

	plain := newError(KindBuild, MsgBuild, "", nil)
	assert.Equal(t, "BuildError: Failed to build device binary", plain.Error())
}

func TestKindOf(t *testing.T) {
	e := newError(KindCrypto, MsgSeal, "", nil)
	assert.Equal(t, KindCrypto, KindOf(e))
	assert.Equal(t, KindCrypto, KindOf(fmt.Errorf("wrapped: %w", e)))
	assert.Equal(t, Kind(""), KindOf(errors.New("other")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
