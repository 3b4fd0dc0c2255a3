package util

import "testing"

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  int
	}{
		{name: "labeled", input: "MV1100-02-002A 侧车轴 数量:2", want: 2},
		{name: "labeled fullwidth colon", input: "NJ313 数量：4", want: 4},
		{name: "times", input: "NJ313 轴承 ×4", want: 4},
		{name: "labeled times", input: "M8X20 数量×12", want: 12},
		{name: "unit pieces", input: "135-01-003A 缸盖螺栓 6件", want: 6},
		{name: "unit ge", input: "轴承 3个", want: 3},
		{name: "none", input: "135-01-003A 缸盖螺栓", want: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseQuantity(tc.input)
			if got.Qty != tc.want {
				t.Fatalf("got %d want %d", got.Qty, tc.want)
			}
		})
	}
}

func TestParseCellInt(t *testing.T) {
	cases := []struct {
		input string
		want  int
		ok    bool
	}{
		{"2", 2, true},
		{" 5 ", 5, true},
		{"3.0", 3, true},
		{"4件", 4, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"2.5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseCellInt(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseCellInt(%q) = %d,%v want %d,%v", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}
