package mediator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glimte/mediator-go/contracts"
)

func TestSend(t *testing.T) {
	t.Run("returns the typed response", func(t *testing.T) {
		med := New()
		require.NoError(t, med.Subscribe("x", &GetVolumeRequest{}, answerWith(42)))

		volume, err := Send[int](context.Background(), med, "x", newGetVolumeRequest())

		assert.NoError(t, err)
		assert.Equal(t, 42, volume)
	})

	t.Run("propagates dispatch errors", func(t *testing.T) {
		med := New()

		_, err := Send[int](context.Background(), med, "x", newGetVolumeRequest())

		assert.ErrorIs(t, err, contracts.ErrNoActiveSubscribers)
	})

	t.Run("fails when the assertion type disagrees with the response", func(t *testing.T) {
		med := New(WithResponseValidation(false))
		require.NoError(t, med.Subscribe("x", &GetVolumeRequest{}, answerWith("loud")))

		_, err := Send[int](context.Background(), med, "x", newGetVolumeRequest())

		var badResponse *contracts.BadResponseError
		assert.ErrorAs(t, err, &badResponse)
	})
}

func TestStream(t *testing.T) {
	t.Run("yields typed responses", func(t *testing.T) {
		med := New()
		require.NoError(t, med.Subscribe("x", &ListListenersRequest{}, answerWith("a")))
		require.NoError(t, med.Subscribe("x", &ListListenersRequest{}, answerWith("b")))

		seq, err := Stream[string](context.Background(), med, "x", newListListenersRequest())
		require.NoError(t, err)

		var listeners []string
		for listener, err := range seq {
			require.NoError(t, err)
			listeners = append(listeners, listener)
		}
		assert.ElementsMatch(t, []string{"a", "b"}, listeners)
	})

	t.Run("propagates acceptance errors eagerly", func(t *testing.T) {
		med := New()
		req := newListListenersRequest()
		require.True(t, req.MarkPublished())

		_, err := Stream[string](context.Background(), med, "x", req)

		assert.ErrorIs(t, err, contracts.ErrAlreadyPublished)
	})

	t.Run("fails when the assertion type disagrees with a response", func(t *testing.T) {
		med := New(WithResponseValidation(false))
		require.NoError(t, med.Subscribe("x", &ListListenersRequest{}, answerWith(7)))

		seq, err := Stream[string](context.Background(), med, "x", newListListenersRequest())
		require.NoError(t, err)

		var streamErr error
		for _, err := range seq {
			if err != nil {
				streamErr = err
				break
			}
		}
		var badResponse *contracts.BadResponseError
		assert.ErrorAs(t, streamErr, &badResponse)
	})
}
