package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/KarthicSuRa/mcm-alerts/internal/db"
	"github.com/KarthicSuRa/mcm-alerts/pkg/onesignal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	subs    map[string][]*db.TopicSubscription
	devices map[string][]*db.PushDevice
	err     error
}

func (f *fakeStore) GetSubscriptionsByTopic(topicID string) ([]*db.TopicSubscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.subs[topicID], nil
}

func (f *fakeStore) GetDevicesBySubscribers(subscriberIDs []string) ([]*db.PushDevice, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*db.PushDevice
	for _, id := range subscriberIDs {
		out = append(out, f.devices[id]...)
	}
	return out, nil
}

type fakePusher struct {
	requests []onesignal.NotificationRequest
	resp     *onesignal.NotificationResponse
	err      error
}

func (f *fakePusher) CreateNotification(ctx context.Context, req onesignal.NotificationRequest) (*onesignal.NotificationResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeRecorder struct {
	successes int
	failures  int
}

func (f *fakeRecorder) RecordNotification(severity db.Severity, success bool, latencySeconds float64) {
	if success {
		f.successes++
	} else {
		f.failures++
	}
}

func topicID(s string) *string { return &s }

func TestDispatch_NoTopicIsSkipped(t *testing.T) {
	n := NewNotifier(&fakeStore{}, &fakePusher{}, &fakeRecorder{}, zap.NewNop())

	result, err := n.Dispatch(context.Background(), &db.Notification{ID: "n1"})
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, "no topic", result.Reason)
}

func TestDispatch_NoSubscribersIsSkipped(t *testing.T) {
	store := &fakeStore{subs: map[string][]*db.TopicSubscription{}}
	pusher := &fakePusher{}
	n := NewNotifier(store, pusher, &fakeRecorder{}, zap.NewNop())

	result, err := n.Dispatch(context.Background(), &db.Notification{ID: "n1", TopicID: topicID("t1")})
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Empty(t, pusher.requests)
}

func TestDispatch_NoDevicesIsSkipped(t *testing.T) {
	store := &fakeStore{
		subs: map[string][]*db.TopicSubscription{
			"t1": {{TopicID: "t1", SubscriberID: "u1"}},
		},
		devices: map[string][]*db.PushDevice{},
	}
	pusher := &fakePusher{}
	n := NewNotifier(store, pusher, &fakeRecorder{}, zap.NewNop())

	result, err := n.Dispatch(context.Background(), &db.Notification{ID: "n1", TopicID: topicID("t1")})
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, "no devices", result.Reason)
}

func TestDispatch_SinglePushCoversAllDevices(t *testing.T) {
	store := &fakeStore{
		subs: map[string][]*db.TopicSubscription{
			"t1": {
				{TopicID: "t1", SubscriberID: "u1"},
				{TopicID: "t1", SubscriberID: "u2"},
			},
		},
		devices: map[string][]*db.PushDevice{
			"u1": {{PlayerID: "p1", SubscriberID: "u1"}},
			"u2": {{PlayerID: "p2", SubscriberID: "u2"}, {PlayerID: "p3", SubscriberID: "u2"}},
		},
	}
	pusher := &fakePusher{resp: &onesignal.NotificationResponse{ID: "prov-1", Recipients: 3}}
	recorder := &fakeRecorder{}
	n := NewNotifier(store, pusher, recorder, zap.NewNop())

	notification := &db.Notification{
		ID:       "n1",
		Title:    "Site Down: api",
		Message:  "api is not responding.",
		Severity: db.SeverityHigh,
		TopicID:  topicID("t1"),
		Metadata: db.JSONB{"site_name": "api"},
	}

	result, err := n.Dispatch(context.Background(), notification)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, "prov-1", result.ProviderID)
	assert.Equal(t, 3, result.Recipients)

	require.Len(t, pusher.requests, 1)
	req := pusher.requests[0]
	assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, req.IncludePlayerIDs)
	assert.Equal(t, "Site Down: api", req.Headings["en"])
	assert.Equal(t, "api - high", req.Subtitle["en"])
	assert.Equal(t, 10, req.Priority)
	assert.Equal(t, 1, recorder.successes)
}

func TestDispatch_MediumSeverityGetsNormalPriority(t *testing.T) {
	store := &fakeStore{
		subs: map[string][]*db.TopicSubscription{
			"t1": {{TopicID: "t1", SubscriberID: "u1"}},
		},
		devices: map[string][]*db.PushDevice{
			"u1": {{PlayerID: "p1", SubscriberID: "u1"}},
		},
	}
	pusher := &fakePusher{resp: &onesignal.NotificationResponse{ID: "prov-2", Recipients: 1}}
	n := NewNotifier(store, pusher, &fakeRecorder{}, zap.NewNop())

	_, err := n.Dispatch(context.Background(), &db.Notification{
		ID: "n1", Severity: db.SeverityMedium, TopicID: topicID("t1"),
	})
	require.NoError(t, err)
	require.Len(t, pusher.requests, 1)
	assert.Equal(t, 5, pusher.requests[0].Priority)
}

func TestDispatch_ProviderFailureIsReturned(t *testing.T) {
	store := &fakeStore{
		subs: map[string][]*db.TopicSubscription{
			"t1": {{TopicID: "t1", SubscriberID: "u1"}},
		},
		devices: map[string][]*db.PushDevice{
			"u1": {{PlayerID: "p1", SubscriberID: "u1"}},
		},
	}
	pusher := &fakePusher{err: errors.New("provider unavailable")}
	recorder := &fakeRecorder{}
	n := NewNotifier(store, pusher, recorder, zap.NewNop())

	_, err := n.Dispatch(context.Background(), &db.Notification{ID: "n1", TopicID: topicID("t1")})
	require.Error(t, err)
	assert.Equal(t, 1, recorder.failures)
}
