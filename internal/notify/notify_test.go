package notify

import (
	"context"
	"errors"
	"testing"

	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeCreator struct {
	params *openapi.CreateMessageParams
	err    error
}

func (f *fakeCreator) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &openapi.ApiV2010Message{Sid: &sid}, nil
}

func newTestTwilio(creator messageCreator) *Twilio {
	return &Twilio{api: creator, fromWhatsApp: "+15550000000", logger: zap.NewNop()}
}

func TestOwnerIDFromAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		address string
		want    int64
		wantErr bool
	}{
		{address: "whatsapp:+15551234567", want: 15551234567},
		{address: "+4915112345678", want: 4915112345678},
		{address: "42", want: 42},
		{address: "", wantErr: true},
		{address: "whatsapp:", wantErr: true},
		{address: "whatsapp:+1555abc", wantErr: true},
		{address: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			got, err := OwnerIDFromAddress(tt.address)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
			if back, _ := OwnerIDFromAddress(Address(got)); back != got {
				t.Errorf("Address round trip: got %d, want %d", back, got)
			}
		})
	}
}

func TestTwilioDeliverSuccess(t *testing.T) {
	t.Parallel()
	creator := &fakeCreator{}
	n := newTestTwilio(creator)

	if err := n.Deliver(context.Background(), 15551234567, "hello"); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if creator.params == nil {
		t.Fatal("CreateMessage not called")
	}
	if got := *creator.params.To; got != "whatsapp:+15551234567" {
		t.Errorf("To = %q", got)
	}
	if got := *creator.params.From; got != "whatsapp:+15550000000" {
		t.Errorf("From = %q", got)
	}
	if got := *creator.params.Body; got != "hello" {
		t.Errorf("Body = %q", got)
	}
}

func TestTwilioDeliverClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		err           error
		wantPermanent bool
	}{
		{name: "unsubscribed", err: &twclient.TwilioRestError{Code: 21610, Status: 400, Message: "unsubscribed"}, wantPermanent: true},
		{name: "invalid number", err: &twclient.TwilioRestError{Code: 21211, Status: 400}, wantPermanent: true},
		{name: "channel address missing", err: &twclient.TwilioRestError{Code: 63003, Status: 400}, wantPermanent: true},
		{name: "rate limited", err: &twclient.TwilioRestError{Code: 20429, Status: 429}, wantPermanent: false},
		{name: "auth failure", err: &twclient.TwilioRestError{Code: 20003, Status: 401}, wantPermanent: false},
		{name: "network", err: errors.New("connection reset"), wantPermanent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n := newTestTwilio(&fakeCreator{err: tt.err})
			err := n.Deliver(context.Background(), 15551234567, "x")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := IsPermanent(err); got != tt.wantPermanent {
				t.Errorf("IsPermanent = %v, want %v (err: %v)", got, tt.wantPermanent, err)
			}
		})
	}
}

func TestTwilioDeliverWithoutSender(t *testing.T) {
	t.Parallel()
	n := &Twilio{api: &fakeCreator{}, logger: zap.NewNop()}
	err := n.Deliver(context.Background(), 1, "x")
	if err == nil || IsPermanent(err) {
		t.Fatalf("missing sender should be a transient error, got %v", err)
	}
}

func TestTwilioDeliverCancelledContext(t *testing.T) {
	t.Parallel()
	creator := &fakeCreator{}
	n := newTestTwilio(creator)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.Deliver(ctx, 1, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if creator.params != nil {
		t.Fatal("CreateMessage called with cancelled context")
	}
}

func TestLogNotifier(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zap.InfoLevel)
	n := NewLog(zap.New(core))

	if err := n.Deliver(context.Background(), 42, "ping"); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if logs.Len() != 1 {
		t.Fatalf("got %d log entries, want 1", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["owner_id"]; got != int64(42) {
		t.Errorf("owner_id = %v", got)
	}
}
