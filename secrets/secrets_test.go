package secrets

import "testing"

func testPolicy() *Policy {
	return &Policy{
		Enabled:      true,
		ReadEnabled:  true,
		WriteEnabled: true,
		Allow:        []string{"aws/*"},
		Deny:         []string{"aws/secret-deny"},
	}
}

func TestAllowedKeyUsingPattern(t *testing.T) {
	if got := Evaluate(testPolicy(), "aws/key", ActionRead, true); got != Allowed {
		t.Fatalf("got %v, want Allowed", got)
	}
}

func TestDeniedKeyDueToDenyList(t *testing.T) {
	if got := Evaluate(testPolicy(), "aws/secret-deny", ActionRead, true); got != Denied {
		t.Fatalf("got %v, want Denied", got)
	}
}

func TestHostUnavailableWhenDisabled(t *testing.T) {
	if got := Evaluate(testPolicy(), "aws/key", ActionRead, false); got != HostUnavailable {
		t.Fatalf("got %v, want HostUnavailable", got)
	}
}

func TestDeniedWhenPolicyNil(t *testing.T) {
	if got := Evaluate(nil, "aws/key", ActionRead, true); got != Denied {
		t.Fatalf("got %v, want Denied", got)
	}
}

func TestDeniedWhenNotEnabled(t *testing.T) {
	p := testPolicy()
	p.Enabled = false
	if got := Evaluate(p, "aws/key", ActionRead, true); got != Denied {
		t.Fatalf("got %v, want Denied", got)
	}
}

func TestDeniedWhenEmptyAllowList(t *testing.T) {
	p := testPolicy()
	p.Allow = nil
	if got := Evaluate(p, "aws/key", ActionRead, true); got != Denied {
		t.Fatalf("got %v, want Denied", got)
	}
}

func TestWriteDeniedWhenWriteDisabled(t *testing.T) {
	p := testPolicy()
	p.WriteEnabled = false
	if got := Evaluate(p, "aws/key", ActionWrite, true); got != Denied {
		t.Fatalf("got %v, want Denied", got)
	}
}
