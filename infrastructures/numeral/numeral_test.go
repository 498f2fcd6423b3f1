package numeral

import (
	"strconv"
	"testing"
)

func TestParse_Arabic(t *testing.T) {
	cases := []string{"0", "5", "42", "8000", "1.5", "0.25", "15000", ".5", "3."}
	for _, tc := range cases {
		want, err := strconv.ParseFloat(tc, 64)
		if err != nil {
			t.Fatalf("bad fixture %q: %v", tc, err)
		}
		got, ok := Parse(tc)
		if !ok {
			t.Fatalf("Parse(%q) not ok", tc)
		}
		if got != want {
			t.Fatalf("Parse(%q)=%v, want %v", tc, got, want)
		}
	}
}

func TestParse_Chinese(t *testing.T) {
	cases := []struct {
		token string
		want  float64
	}{
		{"十", 10},
		{"二十三", 23},
		{"一百二十", 120},
		{"两千零五", 2005},
		{"四", 4},
		{"两", 2},
		{"零", 0},
		{"十五", 15},
		{"三十", 30},
		{"一万", 10000},
		{"一万五", 15000},
		{"两千五", 2500},
		{"一万零五", 10005},
		{"一百二十万", 1200000},
		{"十万", 100000},
		{"三千八百", 3800},
		{"30万", 300000},
		{"1.5万", 15000},
		{"2千5", 2500},
		{"3万5", 35000},
		{"万万万", 1e12},
		{"〇", 0},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.token)
		if !ok {
			t.Fatalf("Parse(%q) not ok", tc.token)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q)=%v, want %v", tc.token, got, tc.want)
		}
	}
}

func TestParse_NotANumber(t *testing.T) {
	cases := []string{
		"", "几", "abc", "1.2.3", "云南", "<script>",
		// 混写
		"2千零5", "三千5", "5十二",
		// 超出范围
		"九千万万万万", "万万万万万万万万", "1.5万万万万",
	}
	for _, tc := range cases {
		if v, ok := Parse(tc); ok {
			t.Fatalf("Parse(%q)=%v, expected not-a-number", tc, v)
		}
	}
}

func TestParse_SkipsUnknownCharacters(t *testing.T) {
	got, ok := Parse("约三十个")
	if !ok || got != 30 {
		t.Fatalf("Parse with noise = %v,%v, want 30,true", got, ok)
	}
}
