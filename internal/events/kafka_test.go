package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	pub := NewKafkaPublisherWithProducer(producer, "group-events")

	occurred := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got GroupEvent
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.Type != GroupMemberJoined || got.GroupID != "g1" || got.MemberCount != 3 {
			return errors.New("unexpected payload")
		}
		if !got.OccurredAt.Equal(occurred) {
			return errors.New("timestamp not preserved")
		}
		return nil
	})

	err := pub.Publish(context.Background(), GroupEvent{
		Type:        GroupMemberJoined,
		GroupID:     "g1",
		UserID:      "u2",
		MemberCount: 3,
		MaxMembers:  6,
		OccurredAt:  occurred,
	})
	require.NoError(t, err)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_FillsTimestamp(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	pub := NewKafkaPublisherWithProducer(producer, "group-events")

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got GroupEvent
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.OccurredAt.IsZero() {
			return errors.New("missing timestamp")
		}
		return nil
	})

	require.NoError(t, pub.Publish(context.Background(), GroupEvent{Type: GroupCreated, GroupID: "g1"}))
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_SendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	pub := NewKafkaPublisherWithProducer(producer, "group-events")

	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := pub.Publish(context.Background(), GroupEvent{Type: GroupDeleted, GroupID: "g1"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	pub := NewKafkaPublisherWithProducer(producer, "group-events")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pub.Publish(ctx, GroupEvent{Type: GroupDeleted, GroupID: "g1"})
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, pub.Close())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), GroupEvent{Type: GroupCreated}))
	assert.NoError(t, p.Close())
}

func TestNewKafkaConfig(t *testing.T) {
	cfg := NewKafkaConfig("squadup-test")
	assert.Equal(t, "squadup-test", cfg.ClientID)
	assert.True(t, cfg.Producer.Return.Successes)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.NoError(t, cfg.Validate())
}
