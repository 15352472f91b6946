package app

import "testing"

func TestFingerprintDeterminism(t *testing.T) {
	raw := "/poll Lunch?\nPizza\nSushi"
	if fingerprint(raw) != fingerprint(raw) {
		t.Fatal("отпечаток одного текста не совпадает сам с собой")
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	raw := "/poll Lunch?\nPizza\nSushi"
	edits := []string{
		"/poll Lunch!\nPizza\nSushi",
		"/poll Lunch?\nPasta\nSushi",
		"/poll Lunch?\nPizza\nSushi ",
		"/mpoll Lunch?\nPizza\nSushi",
	}
	for _, e := range edits {
		if fingerprint(e) == fingerprint(raw) {
			t.Fatalf("правка %q не изменила отпечаток", e)
		}
	}
}

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		in   string
		kind actionKind
		fp   uint64
	}{
		{"approve 42", actionApprove, 42},
		{"approve 18446744073709551615", actionApprove, 18446744073709551615},
		{"duplicate", actionDuplicate, 0},
		{"reject", actionReject, 0},
		{"", actionReject, 0},
		{"approve", actionReject, 0},
		{"approve abc", actionReject, 0},
		{"approve -1", actionReject, 0},
		{"approve 99999999999999999999999", actionReject, 0},
		{"garbage payload", actionReject, 0},
		{"APPROVE 42", actionReject, 0},
	}
	for _, tt := range tests {
		act := decodeAction(tt.in)
		if act.Kind != tt.kind {
			t.Fatalf("decodeAction(%q).Kind = %v, ожидалось %v", tt.in, act.Kind, tt.kind)
		}
		if act.Fingerprint != tt.fp {
			t.Fatalf("decodeAction(%q).Fingerprint = %d, ожидалось %d", tt.in, act.Fingerprint, tt.fp)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	fp := fingerprint("/poll Lunch?\nPizza\nSushi")
	act := decodeAction(encodeApprove(fp))
	if act.Kind != actionApprove || act.Fingerprint != fp {
		t.Fatalf("encode/decode потерял отпечаток: %+v (ожидалось %d)", act, fp)
	}
}
