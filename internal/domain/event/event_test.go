package event

import (
	"strings"
	"testing"
	"time"
)

func TestTypeIsValid(t *testing.T) {
	for _, typ := range []Type{
		TypeOverlayConnected, TypeOverlayHeartbeat, TypeOverlayDisconnected,
		TypeSessionStarted, TypeSessionEnded,
		TypeAdCandidateSelected, TypeAdCommandSent, TypeAdRendered,
		TypeAdCompleted, TypeAdClick, TypeAdError,
	} {
		if !typ.IsValid() {
			t.Errorf("IsValid(%s) = false", typ)
		}
	}

	if Type("ad_skipped").IsValid() {
		t.Error("IsValid accepted a type outside the enumeration")
	}
}

// payloadOfSerializedSize builds a payload whose JSON form is exactly n bytes.
func payloadOfSerializedSize(t *testing.T, n int) map[string]any {
	t.Helper()
	// {"k":"<filler>"} costs 8 bytes of framing
	const framing = 8
	if n < framing+1 {
		t.Fatalf("cannot build payload of %d bytes", n)
	}
	return map[string]any{"k": strings.Repeat("a", n-framing)}
}

func TestValidatePayloadBoundary(t *testing.T) {
	atLimit := payloadOfSerializedSize(t, MaxPayloadBytes)
	if err := ValidatePayload(atLimit); err != nil {
		t.Errorf("payload of exactly %d bytes rejected: %v", MaxPayloadBytes, err)
	}

	overLimit := payloadOfSerializedSize(t, MaxPayloadBytes+1)
	if err := ValidatePayload(overLimit); err == nil {
		t.Errorf("payload of %d bytes accepted", MaxPayloadBytes+1)
	}
}

func TestValidatePayloadAllowsNil(t *testing.T) {
	if err := ValidatePayload(nil); err != nil {
		t.Errorf("nil payload rejected: %v", err)
	}
}

func TestEventValidate(t *testing.T) {
	evt := &Event{
		ID:        "evt-1",
		Type:      TypeAdClick,
		Timestamp: time.Now(),
		RequestID: "req-1",
	}
	if err := evt.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	bad := &Event{ID: "evt-2", Type: Type("bogus"), RequestID: "req-2"}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted an unknown event type")
	}

	noReq := &Event{ID: "evt-3", Type: TypeAdClick}
	if err := noReq.Validate(); err == nil {
		t.Error("Validate() accepted a missing request id")
	}
}
