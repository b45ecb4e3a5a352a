package version

import "testing"

func TestString(t *testing.T) {
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })

	Version, Commit, Date = "v1.2.0", "abc123", "2024-05-01"
	if got, want := String(), "cinedex v1.2.0 (commit abc123, built 2024-05-01)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
