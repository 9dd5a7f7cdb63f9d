package webhooks

import "testing"

func TestSignAndVerifyHMACRoundTrip(t *testing.T) {
	body := []byte(`{"id":"evt_1","type":"run.completed"}`)
	sig := SignHMAC("secret", body)
	if !VerifyHMAC("secret", body, sig) {
		t.Fatalf("VerifyHMAC rejected a signature SignHMAC just produced")
	}
	if VerifyHMAC("wrong-secret", body, sig) {
		t.Fatalf("VerifyHMAC accepted a signature with the wrong secret")
	}
}
