package main

import (
	"reflect"
	"testing"
)

func TestParseInputs(t *testing.T) {
	cases := []struct {
		in      string
		want    []int64
		wantErr bool
	}{
		{"", nil, false},
		{"  ", nil, false},
		{"3", []int64{3}, false},
		{"3,4,5", []int64{3, 4, 5}, false},
		{" 3 , 4 ", []int64{3, 4}, false},
		{"0", []int64{0}, false},
		{"-1", nil, true},
		{"1,-2", nil, true},
		{"abc", nil, true},
		{"1,,2", nil, true},
	}
	for _, c := range cases {
		got, err := parseInputs(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("parseInputs(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseInputs(%q): %v", c.in, err)
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("parseInputs(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
