package featureflags

import "testing"

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	if !m.Enabled("a", 1) || !m.Enabled("c", 1) || !m.Enabled("e", 1) {
		t.Fatal("expected enabled boolean values to evaluate true")
	}
	if m.Enabled("b", 1) || m.Enabled("d", 1) || m.Enabled("f", 1) {
		t.Fatal("expected disabled boolean values to evaluate false")
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%")

	if !m.Enabled("always", 1) {
		t.Fatal("100% rollout should always be enabled")
	}
	if m.Enabled("never", 1) {
		t.Fatal("0% rollout should never be enabled")
	}
	if m.Enabled("canary", 0) {
		t.Fatal("partial rollout should exclude anonymous users")
	}

	// Deterministic: same user, same answer every time.
	first := m.Enabled("canary", 42)
	for i := 0; i < 10; i++ {
		if m.Enabled("canary", 42) != first {
			t.Fatal("rollout evaluation should be stable per user")
		}
	}
}

func TestEnabled_UnknownAndMalformed(t *testing.T) {
	m := NewManager("good=on,noequals,=off,empty=,weird=banana")

	if !m.Enabled("good", 1) {
		t.Fatal("well-formed flag should survive malformed neighbors")
	}
	if m.Enabled("missing", 1) || m.Enabled("weird", 1) {
		t.Fatal("unknown names and unrecognized values should be off")
	}
}

func TestSnapshot(t *testing.T) {
	m := NewManager("x=on,y=off")
	snap := m.Snapshot(7)

	if len(snap) != 2 || !snap["x"] || snap["y"] {
		t.Fatalf("unexpected snapshot: %v", snap)
	}
}
