package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/al-mudeer/inbox-agent/internal/model"
)

func TestInferMessageType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.MessageType
	}{
		{"email markers", "From: x@y.com\nSubject: order status", model.MessageTypeEmail},
		{"at sign alone is not email", "ping @ahmad about this", model.MessageTypeGeneral},
		{"whatsapp latin", "forwarded from whatsapp: هل المنتج متوفر؟", model.MessageTypeWhatsApp},
		{"whatsapp arabic", "رسالة واتساب من العميل", model.MessageTypeWhatsApp},
		{"telegram", "عبر تيليجرام: استفسار عن الطلب", model.MessageTypeTelegram},
		{"plain", "مرحبا، كم السعر؟", model.MessageTypeGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inferMessageType(tt.raw))
		})
	}
}

func TestIngest_TrimsAndInfers(t *testing.T) {
	o := New(testConfig(), nil, nil, nil)
	state := &model.PipelineState{RawMessage: "  مرحبا  \n"}

	o.ingest(context.Background(), state, testLogger())

	assert.Equal(t, "مرحبا", state.RawMessage)
	assert.Equal(t, model.MessageTypeGeneral, state.MessageType)
}

func TestIngest_NoURLNoFetch(t *testing.T) {
	fetcher := &fakeFetcher{text: "should not appear"}
	o := New(testConfig(), nil, fetcher, nil)
	state := &model.PipelineState{RawMessage: "بدون روابط"}

	o.ingest(context.Background(), state, testLogger())

	assert.Equal(t, "بدون روابط", state.RawMessage)
}
