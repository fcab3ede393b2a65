package mqtt

import (
	"errors"
	"strings"
	"testing"
)

func TestCloseNil(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}

func TestPublishValidation(t *testing.T) {
	// Validation runs before any broker interaction, so a zero-value
	// client is sufficient here.
	client := &Client{subscriptions: make(map[string]subscription)}

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{
			name:    "empty topic",
			topic:   "",
			payload: []byte("{}"),
			qos:     1,
			wantErr: ErrInvalidTopic,
		},
		{
			name:    "invalid qos",
			topic:   "brewfleet/report/m1",
			payload: []byte("{}"),
			qos:     3,
			wantErr: ErrInvalidQoS,
		},
		{
			name:    "oversized payload",
			topic:   "brewfleet/report/m1",
			payload: []byte(strings.Repeat("x", maxPayloadSize+1)),
			qos:     1,
			wantErr: ErrPublishFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubscribeValidation(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}

	if err := client.Subscribe("", 1, func(string, []byte) error { return nil }); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe() empty topic error = %v, want ErrInvalidTopic", err)
	}
	if err := client.Subscribe("brewfleet/command/+/operate", 3, func(string, []byte) error { return nil }); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Subscribe() invalid qos error = %v, want ErrInvalidQoS", err)
	}
	if err := client.Subscribe("brewfleet/command/+/operate", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("Subscribe() nil handler error = %v, want ErrSubscribeFailed", err)
	}
}

func TestSubscriptionTracking(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}

	if client.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", client.SubscriptionCount())
	}
	if client.HasSubscription("brewfleet/command/+/operate") {
		t.Error("HasSubscription() = true for untracked topic")
	}

	client.subscriptions["brewfleet/command/+/operate"] = subscription{
		topic: "brewfleet/command/+/operate",
		qos:   1,
	}

	if client.SubscriptionCount() != 1 {
		t.Errorf("SubscriptionCount() = %d, want 1", client.SubscriptionCount())
	}
	if !client.HasSubscription("brewfleet/command/+/operate") {
		t.Error("HasSubscription() = false for tracked topic")
	}
}
