package util

import (
	"bytes"
	"testing"
)

func TestPrintBuildInfo(t *testing.T) {
	var buf bytes.Buffer
	PrintBuildInfo(&buf, "v1.2.0", "", "abc123")

	want := "Build version: v1.2.0\nBuild date: N/A\nBuild commit: abc123\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	PrintBuildInfo(nil, "v", "d", "c")
}
