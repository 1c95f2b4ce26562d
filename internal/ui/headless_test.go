package ui

import "testing"

func TestHeadlessManagerForce(t *testing.T) {
	hm := NewHeadlessManager()

	hm.ForceHeadless(true)
	if !hm.IsHeadless() {
		t.Error("IsHeadless() = false after ForceHeadless(true)")
	}

	hm.ForceHeadless(false)
	if hm.IsHeadless() {
		t.Error("IsHeadless() = true after ForceHeadless(false)")
	}

	// Without a forced override, tests run detached from a TTY.
	hm.ClearForce()
	if !hm.IsHeadless() {
		t.Error("IsHeadless() = false without a TTY")
	}
}

func TestThemeMarkers(t *testing.T) {
	theme := NewTheme(true)

	if got := theme.OK("ready"); got != "✓ ready" {
		t.Errorf("OK() = %q, want plain marker without color", got)
	}
	if got := theme.Fail("broken"); got != "✗ broken" {
		t.Errorf("Fail() = %q", got)
	}
	if got := theme.Warn("careful"); got != "! careful" {
		t.Errorf("Warn() = %q", got)
	}
}
