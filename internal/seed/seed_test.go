package seed

import (
	"errors"
	"testing"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name string
		seed string
		want Params
	}{
		{
			name: "nine digits",
			seed: "237006030",
			want: Params{Threads: 4, Processes: 2, DataCount: 300, RNGSeed: 237006030},
		},
		{
			name: "short seed is zero padded",
			seed: "42",
			want: Params{Threads: 4, Processes: 2, DataCount: 420, RNGSeed: 42},
		},
		{
			name: "middle digits drive processes",
			seed: "123556789",
			want: Params{Threads: 3, Processes: 3, DataCount: 7890, RNGSeed: 123556789},
		},
		{
			name: "surrounding whitespace",
			seed: " 000000000\n",
			want: Params{Threads: 2, Processes: 2, DataCount: 0, RNGSeed: 0},
		},
		{
			name: "longer than nine digits",
			seed: "99999999999",
			want: Params{Threads: 5, Processes: 2, DataCount: 9990, RNGSeed: 99999999999},
		},
		{
			name: "wider than int64",
			seed: "12345678901234567890",
			want: Params{Threads: 4, Processes: 2, DataCount: 8900, RNGSeed: 345678901234567890},
		},
		{
			name: "twenty nines",
			seed: "99999999999999999999",
			want: Params{Threads: 5, Processes: 2, DataCount: 9990, RNGSeed: 999999999999999999},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derive(tt.seed)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestDerive_Pure(t *testing.T) {
	a, err := Derive("237006030")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := Derive("237006030")
	if a != b {
		t.Errorf("expected identical params, got %+v and %+v", a, b)
	}
}

func TestDerive_Invalid(t *testing.T) {
	for _, s := range []string{"", "   ", "12a45", "-123", "1.5"} {
		_, err := Derive(s)
		if err == nil {
			t.Errorf("expected error for %q", s)
			continue
		}
		if !errors.Is(err, core.ErrConfiguration) {
			t.Errorf("expected ErrConfiguration for %q, got %v", s, err)
		}
	}
}

func TestAlternative(t *testing.T) {
	threads, procs := Alternative(Params{Threads: 4, Processes: 2})
	if threads != 8 || procs != 3 {
		t.Errorf("expected (8, 3), got (%d, %d)", threads, procs)
	}

	threads, procs = Alternative(Params{})
	if threads != 2 || procs != 1 {
		t.Errorf("expected (2, 1) for zero params, got (%d, %d)", threads, procs)
	}
}

func TestConfigs(t *testing.T) {
	specs := Configs(Params{Threads: 4, Processes: 2}, 50)
	if len(specs) != 2 {
		t.Fatalf("expected 2 configs, got %d", len(specs))
	}
	if specs[0].Label != "nim_config" || specs[0].Threads != 4 || specs[0].Processes != 2 {
		t.Errorf("unexpected first config: %+v", specs[0])
	}
	if specs[1].Label != "alt_config" || specs[1].Threads != 8 || specs[1].Processes != 3 {
		t.Errorf("unexpected second config: %+v", specs[1])
	}
	for _, s := range specs {
		if s.DataCount != 50 {
			t.Errorf("expected data count 50, got %d", s.DataCount)
		}
	}
}
