package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-worktime/internal/domain/event"
	"github.com/oksasatya/go-ddd-worktime/internal/infrastructure/eventbus"
)

func sampleEvent() event.WorkEntryUpdated {
	end := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	return event.WorkEntryUpdated{
		UserID:            "7b0c2a55-4f1d-4a39-9d1e-7a0f0a3c9b11",
		WorkEntryID:       "c1c9e3a2-3c4b-4a55-8a0d-0f4f1a2b3c4d",
		PreviousStartDate: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC),
		PreviousEndDate:   &end,
		OccurredAt:        time.Date(2024, 3, 14, 18, 0, 0, 0, time.UTC),
	}
}

func TestBusDispatch_RunsHandlersInOrder(t *testing.T) {
	bus := eventbus.New(nil)
	var calls []string
	bus.Subscribe(event.WorkEntryUpdatedName, eventbus.HandlerFunc(func(context.Context, event.Event) error {
		calls = append(calls, "first")
		return nil
	}))
	bus.Subscribe(event.WorkEntryUpdatedName, eventbus.HandlerFunc(func(context.Context, event.Event) error {
		calls = append(calls, "second")
		return nil
	}))

	require.NoError(t, bus.Dispatch(context.Background(), sampleEvent()))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestBusDispatch_JoinsErrorsAndKeepsGoing(t *testing.T) {
	bus := eventbus.New(nil)
	boom := errors.New("boom")
	ran := false
	bus.Subscribe(event.WorkEntryUpdatedName, eventbus.HandlerFunc(func(context.Context, event.Event) error { return boom }))
	bus.Subscribe(event.WorkEntryUpdatedName, eventbus.HandlerFunc(func(context.Context, event.Event) error {
		ran = true
		return nil
	}))

	err := bus.Dispatch(context.Background(), sampleEvent())

	require.ErrorIs(t, err, boom)
	assert.True(t, ran)
}

func TestBusDispatch_NoHandlers(t *testing.T) {
	assert.NoError(t, eventbus.New(nil).Dispatch(context.Background(), sampleEvent()))
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env, err := eventbus.Wrap(sampleEvent())
	require.NoError(t, err)
	body, err := json.Marshal(env)
	require.NoError(t, err)

	got, err := eventbus.Decode(body)

	require.NoError(t, err)
	assert.Equal(t, sampleEvent(), got)
}

func TestDecode_UnknownEvent(t *testing.T) {
	_, err := eventbus.Decode([]byte(`{"name":"user.created","payload":{}}`))
	assert.ErrorIs(t, err, eventbus.ErrUnknownEvent)

	_, err = eventbus.Decode([]byte(`not json`))
	assert.Error(t, err)
}

type capturePublisher struct {
	body     any
	deadline bool
	err      error
}

func (c *capturePublisher) PublishJSON(ctx context.Context, body any) error {
	c.body = body
	_, c.deadline = ctx.Deadline()
	return c.err
}

func TestRabbitRelay_PublishesEnvelope(t *testing.T) {
	pub := &capturePublisher{}
	relay := eventbus.NewRabbitRelay(pub)

	require.NoError(t, relay.Handle(context.Background(), sampleEvent()))

	env, ok := pub.body.(eventbus.Envelope)
	require.True(t, ok)
	assert.Equal(t, event.WorkEntryUpdatedName, env.Name)
	assert.True(t, pub.deadline)
}

func TestRabbitRelay_PropagatesPublishError(t *testing.T) {
	pub := &capturePublisher{err: errors.New("channel closed")}

	err := eventbus.NewRabbitRelay(pub).Handle(context.Background(), sampleEvent())

	assert.EqualError(t, err, "channel closed")
}
