package main

import (
	"reflect"
	"testing"
)

func TestSplitTags(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"rock", []string{"rock"}},
		{"rock,jazz", []string{"rock", "jazz"}},
		{" rock , jazz ,", []string{"rock", "jazz"}},
		{"", nil},
	}
	for _, c := range cases {
		got := splitTags(c.in)
		if len(got) == 0 && len(c.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("splitTags(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
