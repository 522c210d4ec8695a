package batch

import (
	"fmt"
	"testing"
)

func TestGroup_Shape(t *testing.T) {
	tests := []struct {
		name        string
		count       int
		maxPerGroup int
		wantBatches int
		wantLast    int
	}{
		{"exact multiple", 20, 10, 2, 10},
		{"remainder", 25, 10, 3, 5},
		{"single short batch", 3, 10, 1, 3},
		{"single identifier", 1, 10, 1, 1},
		{"batch size one", 4, 1, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, tt.count)
			for i := range ids {
				ids[i] = fmt.Sprintf("MPN-%03d", i)
			}

			batches := Group(ids, tt.maxPerGroup, RangeFilter{})

			if len(batches) != tt.wantBatches {
				t.Fatalf("Group() produced %d batches, want %d", len(batches), tt.wantBatches)
			}

			// All batches but the last must be full; none may be empty.
			for i, b := range batches {
				if b.Size() == 0 {
					t.Errorf("Batch %d is empty", i)
				}
				if i < len(batches)-1 && b.Size() != tt.maxPerGroup {
					t.Errorf("Batch %d size = %d, want %d", i, b.Size(), tt.maxPerGroup)
				}
				if b.Size() > tt.maxPerGroup {
					t.Errorf("Batch %d size = %d exceeds max %d", i, b.Size(), tt.maxPerGroup)
				}
			}

			if last := batches[len(batches)-1].Size(); last != tt.wantLast {
				t.Errorf("Last batch size = %d, want %d", last, tt.wantLast)
			}

			// Concatenating all batches must reproduce the input order.
			var flat []string
			for _, b := range batches {
				flat = append(flat, b.Identifiers...)
			}
			if len(flat) != tt.count {
				t.Fatalf("Concatenated length = %d, want %d", len(flat), tt.count)
			}
			for i := range flat {
				if flat[i] != ids[i] {
					t.Errorf("Identifier %d = %q, want %q", i, flat[i], ids[i])
				}
			}
		})
	}
}

func TestGroup_EmptyInput(t *testing.T) {
	batches := Group(nil, 10, RangeFilter{})
	if len(batches) != 0 {
		t.Errorf("Group(nil) = %d batches, want 0", len(batches))
	}

	batches = Group([]string{}, 10, RangeFilter{})
	if len(batches) != 0 {
		t.Errorf("Group(empty) = %d batches, want 0", len(batches))
	}
}

func TestGroup_TrimsIdentifiers(t *testing.T) {
	ids := []string{" A1 ", "42", "\tb2\n"}
	batches := Group(ids, 10, RangeFilter{})

	if len(batches) != 1 {
		t.Fatalf("Expected 1 batch, got %d", len(batches))
	}

	want := []string{"A1", "42", "b2"}
	for i, id := range batches[0].Identifiers {
		if id != want[i] {
			t.Errorf("Identifier %d = %q, want %q", i, id, want[i])
		}
	}
}

func TestGroup_RangeFilter(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f"}

	tests := []struct {
		name   string
		filter RangeFilter
		want   []string
	}{
		{
			name:   "half-open slice",
			filter: RangeFilter{Enabled: true, Start: 2, Stop: 5},
			want:   []string{"c", "d", "e"},
		},
		{
			name:   "stop beyond length clamps silently",
			filter: RangeFilter{Enabled: true, Start: 4, Stop: 100},
			want:   []string{"e", "f"},
		},
		{
			name:   "start beyond length yields nothing",
			filter: RangeFilter{Enabled: true, Start: 10, Stop: 20},
			want:   nil,
		},
		{
			name:   "negative start clamps to zero",
			filter: RangeFilter{Enabled: true, Start: -3, Stop: 2},
			want:   []string{"a", "b"},
		},
		{
			name:   "disabled filter is ignored",
			filter: RangeFilter{Enabled: false, Start: 2, Stop: 5},
			want:   ids,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := Group(ids, 10, tt.filter)

			var flat []string
			for _, b := range batches {
				flat = append(flat, b.Identifiers...)
			}

			if len(flat) != len(tt.want) {
				t.Fatalf("Covered %d identifiers, want %d", len(flat), len(tt.want))
			}
			for i := range flat {
				if flat[i] != tt.want[i] {
					t.Errorf("Identifier %d = %q, want %q", i, flat[i], tt.want[i])
				}
			}
		})
	}
}

func TestBatch_Join(t *testing.T) {
	b := Batch{Identifiers: []string{"LM358", "NE555", "ATMEGA328P-PU"}}
	if got := b.Join(); got != "LM358|NE555|ATMEGA328P-PU" {
		t.Errorf("Join() = %q, want %q", got, "LM358|NE555|ATMEGA328P-PU")
	}

	single := Batch{Identifiers: []string{"LM358"}}
	if got := single.Join(); got != "LM358" {
		t.Errorf("Join() = %q, want %q", got, "LM358")
	}
}

func TestGroup_DefaultMaxPerGroup(t *testing.T) {
	ids := make([]string, 15)
	for i := range ids {
		ids[i] = "X"
	}

	// Non-positive max falls back to the upstream default of 10.
	batches := Group(ids, 0, RangeFilter{})
	if len(batches) != 2 {
		t.Fatalf("Expected 2 batches with default max, got %d", len(batches))
	}
	if batches[0].Size() != DefaultMaxPerGroup {
		t.Errorf("First batch size = %d, want %d", batches[0].Size(), DefaultMaxPerGroup)
	}
}
