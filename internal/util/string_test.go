package util

import (
	"testing"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int64
		wantErr bool
	}{
		{name: "single", input: "1", want: []int64{1}},
		{name: "spaces and empties", input: " 1, 2,,3 ", want: []int64{1, 2, 3}},
		{name: "empty", input: "", want: []int64{}},
		{name: "not a number", input: "1,x", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIDList(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestJoinIDsRoundTrip(t *testing.T) {
	if got := JoinIDs([]int64{4, 1, 9}); got != "4,1,9" {
		t.Fatalf("unexpected join: %s", got)
	}
}

func TestTruncateStringCountsRunes(t *testing.T) {
	if got := TruncateString("كهربائي", 4); got != "كهرب..." {
		t.Fatalf("unexpected truncation: %s", got)
	}
	if got := TruncateString("short", 10); got != "short" {
		t.Fatalf("unexpected truncation: %s", got)
	}
}

func TestUniqueIDs(t *testing.T) {
	got := UniqueIDs([]int64{3, 1, 3, 2, 1})
	want := []int64{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
