package main

import (
	"reflect"
	"testing"
)

func TestRewriteAPIURLArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"country-editor"},
			want: []string{"country-editor"},
		},
		{
			name: "bare url first token",
			in:   []string{"country-editor", "http://127.0.0.1:8000"},
			want: []string{"country-editor", "--api", "http://127.0.0.1:8000"},
		},
		{
			name: "url after value flag",
			in:   []string{"country-editor", "--concurrency", "4", "https://game.example"},
			want: []string{"country-editor", "--concurrency", "4", "--api", "https://game.example"},
		},
		{
			name: "url after equals flag",
			in:   []string{"country-editor", "--format=edn", "http://h"},
			want: []string{"country-editor", "--format=edn", "--api", "http://h"},
		},
		{
			name: "url after bool flag",
			in:   []string{"country-editor", "--pretty", "http://h"},
			want: []string{"country-editor", "--pretty", "--api", "http://h"},
		},
		{
			name: "explicit api flag value not rewritten",
			in:   []string{"country-editor", "--api", "http://h"},
			want: []string{"country-editor", "--api", "http://h"},
		},
		{
			name: "subcommand not rewritten",
			in:   []string{"country-editor", "snapshot", "http://h"},
			want: []string{"country-editor", "snapshot", "http://h"},
		},
		{
			name: "after double dash not rewritten",
			in:   []string{"country-editor", "--", "http://h"},
			want: []string{"country-editor", "--", "http://h"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteAPIURLArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteAPIURLArgs(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}
