package tokenizer

import (
	"reflect"
	"testing"
)

func TestTokenizeNormalization(t *testing.T) {
	a := New(nil, false)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and splits on punctuation",
			text: "Hello, World!",
			want: []string{"hello", "world"},
		},
		{
			name: "splits hyphenated words",
			text: "state-of-the-art",
			want: []string{"state", "of", "the", "art"},
		},
		{
			name: "keeps digits",
			text: "COVID-19 infects 2000 people",
			want: []string{"covid", "19", "infects", "2000", "people"},
		},
		{
			name: "drops single-character tokens",
			text: "a b ab c",
			want: []string{"ab"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "punctuation only",
			text: "... !!! ---",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenizeStopwords(t *testing.T) {
	stop := map[string]struct{}{"the": {}, "of": {}}
	a := New(stop, false)

	got := a.Tokenize("the structure of proteins")
	want := []string{"structure", "proteins"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeStemming(t *testing.T) {
	a := New(nil, true)

	got := a.Tokenize("running cats")
	want := []string{"run", "cat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize with stemming = %v, want %v", got, want)
	}
}

func TestTokenizeStemmingDisabledPassesThrough(t *testing.T) {
	a := New(nil, false)

	got := a.Tokenize("running cats")
	want := []string{"running", "cats"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize without stemming = %v, want %v", got, want)
	}
}

func TestTokenizeStopwordsBeforeStemming(t *testing.T) {
	// The stopword check applies to the surface form, not the stem.
	stop := map[string]struct{}{"running": {}}
	a := New(stop, true)

	got := a.Tokenize("running jumping")
	want := []string{"jump"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}
