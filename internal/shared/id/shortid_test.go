package id

import (
	"strings"
	"testing"
)

func TestGenerateLength(t *testing.T) {
	for _, length := range []int{1, 8, DefaultLength, 32} {
		got, err := Generate(length)
		if err != nil {
			t.Fatalf("Generate(%d) error = %v", length, err)
		}
		if len(got) != length {
			t.Errorf("Generate(%d) length = %d", length, len(got))
		}
		for _, c := range got {
			if !strings.ContainsRune(alphabet, c) {
				t.Errorf("Generate(%d) produced %q outside alphabet", length, c)
			}
		}
	}
}

func TestGenerateDefaultsOnNonPositiveLength(t *testing.T) {
	got, err := Generate(0)
	if err != nil {
		t.Fatalf("Generate(0) error = %v", err)
	}
	if len(got) != DefaultLength {
		t.Errorf("Generate(0) length = %d, want %d", len(got), DefaultLength)
	}
}

func TestRequestIDPrefixes(t *testing.T) {
	sysID := NewSystemRequestID()
	prefix, short, err := ParsePrefixedID(sysID)
	if err != nil {
		t.Fatalf("ParsePrefixedID(%q) error = %v", sysID, err)
	}
	if prefix != PrefixSystem {
		t.Errorf("prefix = %q, want %q", prefix, PrefixSystem)
	}
	if len(short) != DefaultLength {
		t.Errorf("short ID length = %d, want %d", len(short), DefaultLength)
	}

	wsID := NewSocketRequestID()
	if !strings.HasPrefix(wsID, PrefixSocket+"_") {
		t.Errorf("socket request ID %q missing %q prefix", wsID, PrefixSocket)
	}
}

func TestParsePrefixedIDRejectsBareID(t *testing.T) {
	if _, _, err := ParsePrefixedID("nounderscore"); err == nil {
		t.Error("ParsePrefixedID accepted an ID without a prefix separator")
	}
}
