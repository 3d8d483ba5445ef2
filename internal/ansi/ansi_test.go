package ansi

import (
	"bytes"
	"testing"
)

func TestPaint(t *testing.T) {
	t.Parallel()
	if got := Paint(false, "x", Red); got != "x" {
		t.Errorf("Paint(off) = %q, want %q", got, "x")
	}
	if got := Paint(true, "x", Bold, Red); got != Bold+Red+"x"+Reset {
		t.Errorf("Paint(on) = %q", got)
	}
	if got := Paint(true, "x"); got != "x" {
		t.Errorf("Paint without codes = %q, want %q", got, "x")
	}
}

func TestEnabled_NonFileWriter(t *testing.T) {
	t.Parallel()
	if Enabled(&bytes.Buffer{}) {
		t.Error("Enabled(buffer) = true, want false")
	}
}
