// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"reflect"
	"testing"
)

func TestParseQueries(t *testing.T) {
	tests := []struct {
		name     string
		response string
		max      int
		want     []string
	}{
		{
			name:     "one query per line",
			response: "coral reef microplastics\nreef fish ingestion rates",
			max:      2,
			want:     []string{"coral reef microplastics", "reef fish ingestion rates"},
		},
		{
			name:     "caps at max",
			response: "q1\nq2\nq3\nq4",
			max:      2,
			want:     []string{"q1", "q2"},
		},
		{
			name:     "trims and drops blank lines",
			response: "  q1  \n\n   \nq2\n",
			max:      5,
			want:     []string{"q1", "q2"},
		},
		{
			name:     "numbered list lines pass through verbatim",
			response: "1. coral bleaching\n2. ocean warming",
			max:      2,
			want:     []string{"1. coral bleaching", "2. ocean warming"},
		},
		{
			name:     "all-blank response falls back to raw text",
			response: "\n \n",
			max:      2,
			want:     []string{"\n \n"},
		},
		{
			name:     "empty response falls back to itself",
			response: "",
			max:      2,
			want:     []string{""},
		},
		{
			name:     "zero max means no cap",
			response: "q1\nq2\nq3",
			max:      0,
			want:     []string{"q1", "q2", "q3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQueries(tt.response, tt.max)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseQueries() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFollowUps(t *testing.T) {
	tests := []struct {
		name     string
		response string
		max      int
		want     []string
	}{
		{
			name:     "non-blank lines become follow-ups",
			response: "gap: long-term effects\ngap: regional variation",
			max:      2,
			want:     []string{"gap: long-term effects", "gap: regional variation"},
		},
		{
			name:     "empty response converges",
			response: "",
			max:      2,
			want:     nil,
		},
		{
			name:     "whitespace-only lines converge",
			response: "   \n\t\n ",
			max:      2,
			want:     nil,
		},
		{
			name:     "caps at max",
			response: "f1\nf2\nf3",
			max:      2,
			want:     []string{"f1", "f2"},
		},
		{
			name:     "single blank line among content does not converge",
			response: "still need pricing data\n\n",
			max:      2,
			want:     []string{"still need pricing data"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFollowUps(tt.response, tt.max)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFollowUps() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseIndices(t *testing.T) {
	tests := []struct {
		name     string
		response string
		poolSize int
		max      int
		want     []int
	}{
		{
			name:     "comma separated tokens",
			response: "3, 1, 2",
			poolSize: 5,
			max:      10,
			want:     []int{3, 1, 2},
		},
		{
			name:     "multi-digit indices",
			response: "10 and 12",
			poolSize: 12,
			max:      10,
			want:     []int{10, 12},
		},
		{
			name:     "prose around tokens",
			response: "The most relevant sources are [2] and [4], then source 1.",
			poolSize: 5,
			max:      10,
			want:     []int{2, 4, 1},
		},
		{
			name:     "drops out-of-range silently",
			response: "0, 1, 99, 2",
			poolSize: 2,
			max:      10,
			want:     []int{1, 2},
		},
		{
			name:     "deduplicates keeping first occurrence",
			response: "2, 1, 2, 1, 3",
			poolSize: 3,
			max:      10,
			want:     []int{2, 1, 3},
		},
		{
			name:     "truncates to max",
			response: "1 2 3 4 5",
			poolSize: 5,
			max:      3,
			want:     []int{1, 2, 3},
		},
		{
			name:     "no digits yields empty selection",
			response: "none of these sources seem relevant",
			poolSize: 5,
			max:      10,
			want:     nil,
		},
		{
			name:     "empty pool rejects everything",
			response: "1, 2",
			poolSize: 0,
			max:      10,
			want:     nil,
		},
		{
			name:     "huge token is dropped not crashed",
			response: "99999999999999999999999999 then 2",
			poolSize: 3,
			max:      10,
			want:     []int{2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIndices(tt.response, tt.poolSize, tt.max)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseIndices() = %v, want %v", got, tt.want)
			}
		})
	}
}
