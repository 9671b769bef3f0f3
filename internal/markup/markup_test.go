package markup

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Segment
	}{
		{"empty", "", nil},
		{"plain only", "no markup here", []Segment{{Plain, "no markup here"}}},
		{
			"single span",
			"a<strong>b</strong>c",
			[]Segment{{Plain, "a"}, {Emphasis, "b"}, {Plain, "c"}},
		},
		{
			"adjacent spans",
			"<strong>x</strong><strong>y</strong>",
			[]Segment{{Emphasis, "x"}, {Emphasis, "y"}},
		},
		{
			"non-greedy",
			"预计<strong>12时</strong>登陆，风力<strong>14级</strong>。",
			[]Segment{{Plain, "预计"}, {Emphasis, "12时"}, {Plain, "登陆，风力"}, {Emphasis, "14级"}, {Plain, "。"}},
		},
		{
			"unterminated tag stays literal",
			"a<strong>b",
			[]Segment{{Plain, "a<strong>b"}},
		},
		{
			"stray close tag stays literal",
			"a</strong>b",
			[]Segment{{Plain, "a</strong>b"}},
		},
		{
			"unterminated after a matched span",
			"<strong>x</strong> then <strong>y",
			[]Segment{{Emphasis, "x"}, {Plain, " then <strong>y"}},
		},
		{
			"empty span",
			"a<strong></strong>b",
			[]Segment{{Plain, "a"}, {Emphasis, ""}, {Plain, "b"}},
		},
		{
			"span across newline stays literal",
			"<strong>line1\nline2</strong>",
			[]Segment{{Plain, "<strong>line1\nline2</strong>"}},
		},
		{
			"spans on separate lines",
			"<strong>a</strong>\n<strong>b</strong>",
			[]Segment{{Emphasis, "a"}, {Plain, "\n"}, {Emphasis, "b"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplit_PlainIsIdempotent(t *testing.T) {
	in := "台风中心位于温州东南方向约300公里的海面上"
	first := Split(in)
	if len(first) != 1 || first[0].Kind != Plain || first[0].Text != in {
		t.Fatalf("expected a single plain segment, got %v", first)
	}
	second := Split(first[0].Text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected splitting plain text twice to be stable, got %v then %v", first, second)
	}
}

func TestStripAndWrap(t *testing.T) {
	in := "a" + Wrap("b") + "c<strong>d"
	if got := Strip(in); got != "abc<strong>d" {
		t.Errorf("Strip(%q) = %q", in, got)
	}
}

func TestWrapMultiline(t *testing.T) {
	got := Wrap("first\nsecond")
	if got != "<strong>first</strong>\n<strong>second</strong>" {
		t.Fatalf("Wrap = %q", got)
	}
	want := []Segment{{Emphasis, "first"}, {Plain, "\n"}, {Emphasis, "second"}}
	if segs := Split(got); !reflect.DeepEqual(segs, want) {
		t.Errorf("Split(Wrap) = %v, want %v", segs, want)
	}
	if got := Wrap(""); got != "<strong></strong>" {
		t.Errorf("Wrap(\"\") = %q", got)
	}
}
