package shader

import (
	"strings"
	"testing"
)

func TestWithDefinesAfterVersion(t *testing.T) {
	src := "#version 410 core\nvoid main() {}\n"
	got := WithDefines(src, "SKINNED", "MAX_JOINTS 64")

	want := "#version 410 core\n#define SKINNED\n#define MAX_JOINTS 64\nvoid main() {}\n"
	if got != want {
		t.Errorf("WithDefines = %q, want %q", got, want)
	}
}

func TestWithDefinesIndentedSource(t *testing.T) {
	src := "\n\t\t#version 410 core\n\t\tvoid main() {}"
	got := WithDefines(src, "DEPTH_ONLY")
	lines := strings.Split(got, "\n")
	if strings.TrimSpace(lines[1]) != "#version 410 core" || lines[2] != "#define DEPTH_ONLY" {
		t.Errorf("unexpected layout:\n%s", got)
	}
}

func TestWithDefinesNoop(t *testing.T) {
	src := "#version 410 core\n"
	if got := WithDefines(src); got != src {
		t.Errorf("WithDefines() changed source: %q", got)
	}
	if got := WithDefines("void main(){}", "X"); !strings.HasPrefix(got, "#define X\n") {
		t.Errorf("missing version: got %q", got)
	}
}
