package contracts

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBadResponseError(t *testing.T) {
	t.Run("reports got and want types", func(t *testing.T) {
		err := &BadResponseError{
			RequestType: "GetVolumeRequest",
			Got:         reflect.TypeFor[string](),
			Want:        reflect.TypeFor[float64](),
		}

		assert.Contains(t, err.Error(), "GetVolumeRequest")
		assert.Contains(t, err.Error(), "string")
		assert.Contains(t, err.Error(), "float64")
	})

	t.Run("tolerates a nil result type", func(t *testing.T) {
		err := &BadResponseError{RequestType: "GetVolumeRequest", Want: reflect.TypeFor[float64]()}

		assert.Contains(t, err.Error(), "<nil>")
	})
}

func TestTimeoutError(t *testing.T) {
	err := &TimeoutError{Op: "publish", Timeout: 100 * time.Millisecond}

	assert.Contains(t, err.Error(), "publish")
	assert.Contains(t, err.Error(), "100ms")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
