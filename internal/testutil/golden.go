package testutil

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"
	"testing"
)

// updateGolden controls whether golden files should be updated.
// Use: go test ./... -run Golden -update
var updateGolden = flag.Bool("update", false, "update golden files")

// ShouldUpdate returns true if golden files should be updated.
func ShouldUpdate() bool {
	return *updateGolden
}

// CompareGolden compares got against expected/<name>, failing with a diff on mismatch.
// With -update the golden file is rewritten instead.
func CompareGolden(t *testing.T, fixture *FixtureContext, name string, got []byte) {
	t.Helper()

	goldenPath := fixture.ExpectedPath(name)

	if *updateGolden {
		UpdateGolden(t, fixture, name, got)
		t.Logf("Updated golden: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("Golden file missing: %s\n\nGot:\n%s\n\nRun with -update to create:\n  go test ./... -run %s -update",
				goldenPath, string(got), t.Name())
		}
		t.Fatalf("Failed to read golden file: %v", err)
	}

	if !bytes.Equal(got, expected) {
		diff := unifiedDiff(string(expected), string(got), goldenPath)
		t.Fatalf("Golden mismatch for %s:\n%s\n\nRun with -update to refresh:\n  go test ./... -run %s -update",
			name, diff, t.Name())
	}
}

// CompareGoldenJSON normalizes got and compares its canonical JSON form.
func CompareGoldenJSON(t *testing.T, fixture *FixtureContext, name string, got any) {
	t.Helper()
	CompareGolden(t, fixture, name, MarshalNormalized(t, fixture, got))
}

// UpdateGolden writes data to the golden file, creating expected/ if needed.
func UpdateGolden(t *testing.T, fixture *FixtureContext, name string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(fixture.ExpectedDir, 0o755); err != nil {
		t.Fatalf("Failed to create expected directory: %v", err)
	}
	if err := os.WriteFile(fixture.ExpectedPath(name), data, 0o644); err != nil {
		t.Fatalf("Failed to write golden file: %v", err)
	}
}

// unifiedDiff marks differing lines with three lines of leading context.
func unifiedDiff(expected, got, path string) string {
	var buf bytes.Buffer

	expectedLines := strings.Split(expected, "\n")
	gotLines := strings.Split(got, "\n")

	fmt.Fprintf(&buf, "--- %s (expected)\n", path)
	fmt.Fprintf(&buf, "+++ %s (got)\n", path)

	n := max(len(expectedLines), len(gotLines))
	lastShown := -1
	for i := 0; i < n; i++ {
		var exp, act string
		hasExp, hasAct := i < len(expectedLines), i < len(gotLines)
		if hasExp {
			exp = expectedLines[i]
		}
		if hasAct {
			act = gotLines[i]
		}
		if hasExp && hasAct && exp == act {
			continue
		}

		from := max(lastShown+1, i-3)
		if from > lastShown+1 {
			fmt.Fprintf(&buf, "@@ line %d @@\n", i+1)
		}
		for j := from; j < i; j++ {
			if j < len(expectedLines) {
				buf.WriteString(" " + expectedLines[j] + "\n")
			}
		}
		if hasExp {
			buf.WriteString("-" + exp + "\n")
		}
		if hasAct {
			buf.WriteString("+" + act + "\n")
		}
		lastShown = i
	}

	return buf.String()
}
