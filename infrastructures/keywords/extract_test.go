package keywords

import (
	"reflect"
	"testing"
)

func TestExtractDestination(t *testing.T) {
	cases := []struct {
		text string
		want string
		ok   bool
	}{
		{"我们一家四口打算下周三去云南玩五天，预算一万五", "云南", true},
		{"想去大理旅游", "大理", true},
		{"目的地是厦门", "厦门", true},
		{"前往 New York 出差", "New York", true},
		{"从上海到杭州看看", "杭州", true},
		{"3月1日到3月5日去成都", "成都", true},
		{"去玩一下，然后到西安", "西安", true},
		{"杭州三日游", "杭州", true},
		{"海南岛三亚湾", "海南岛", true},
		{"预算八千", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ExtractDestination(tc.text)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ExtractDestination(%q)=%q,%v want %q,%v", tc.text, got, ok, tc.want, tc.ok)
		}
	}
}

type stubPlaces struct {
	place string
	calls int
}

func (s *stubPlaces) FindPlace(string) (string, bool) {
	s.calls++
	return s.place, s.place != ""
}

func TestExtractDestinationWith_FallsBackToPlaces(t *testing.T) {
	places := &stubPlaces{place: "丽江"}
	got, ok := ExtractDestinationWith("丽江古城很好看", places)
	if !ok || got != "丽江古城" {
		t.Fatalf("suffix rule should win before places, got %q,%v", got, ok)
	}
	if places.calls != 0 {
		t.Fatalf("places consulted although a rule matched")
	}

	got, ok = ExtractDestinationWith("想看看洱海的日落", places)
	if !ok || got != "丽江" || places.calls != 1 {
		t.Fatalf("expected fallback to places, got %q,%v calls=%d", got, ok, places.calls)
	}

	if _, ok := ExtractDestinationWith("想看看洱海的日落", nil); ok {
		t.Fatalf("nil places must not match")
	}
}

func TestExtractHeadCount(t *testing.T) {
	cases := []struct {
		text string
		want int
		ok   bool
	}{
		{"我们一家四口", 4, true},
		{"一家几口人出去玩", 3, true},
		{"两人出行", 2, true},
		{"我们三个人", 3, true},
		{"5人", 5, true},
		{"几个人去", 3, true},
		{"十二位人员", 12, true},
		{"0人", 0, false},
		{"预算一万五人民币", 0, false},
		{"一个人的旅行", 1, true},
		{"没有人数", 0, false},
	}
	for _, tc := range cases {
		got, ok := ExtractHeadCount(tc.text, DefaultFewPeople)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ExtractHeadCount(%q)=%d,%v want %d,%v", tc.text, got, ok, tc.want, tc.ok)
		}
	}
}

func TestExtractHeadCount_FewPeopleIsConfigurable(t *testing.T) {
	if got, ok := ExtractHeadCount("几个人", 5); !ok || got != 5 {
		t.Fatalf("few=5 -> %d,%v", got, ok)
	}
	if got, ok := ExtractHeadCount("几个人", 0); !ok || got != DefaultFewPeople {
		t.Fatalf("few<=0 should use default, got %d,%v", got, ok)
	}
}

func TestExtractBudget(t *testing.T) {
	cases := []struct {
		text string
		want float64
		ok   bool
	}{
		{"我们一家四口打算下周三去云南玩五天，预算一万五", 15000, true},
		{"预算大概8000左右", 8000, true},
		{"预算一万二", 12000, true},
		{"预算一千", 1000, true},
		{"花费5000块", 5000, true},
		{"经费3万元", 30000, true},
		{"费用1.5万左右", 15000, true},
		{"预算2千多", 2000, true},
		{"预算两千五百块", 2500, true},
		{"预算0元", 0, true},
		{"我带了3000，钱不多", 3000, true},
		{"大概8000左右", 0, false},
		{"花多少钱都行", 0, false},
		{"预算九千万万万万", 0, false},
		{"预算万万万万万万块", 0, false},
	}
	for _, tc := range cases {
		got, ok := ExtractBudget(tc.text)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ExtractBudget(%q)=%v,%v want %v,%v", tc.text, got, ok, tc.want, tc.ok)
		}
	}
}

func TestExtractPreferences(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{"喜欢美食和摄影，想要慢节奏", []string{"美食", "摄影", "轻松"}},
		{"想去人少的古镇泡温泉", []string{"古镇", "温泉", "小众"}},
		{"小众景点，轻松休闲", []string{"小众", "轻松"}},
		{"温泉 美食 温泉", []string{"美食", "温泉"}},
		{"随便", nil},
	}
	for _, tc := range cases {
		got := ExtractPreferences(tc.text)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ExtractPreferences(%q)=%v want %v", tc.text, got, tc.want)
		}
	}
}

func TestDestinationPinyin(t *testing.T) {
	cases := map[string]string{
		"云南":       "yunnan",
		"大理":       "dali",
		"New York": "new-york",
		"海南岛":      "hainandao",
		"":         "",
	}
	for in, want := range cases {
		if got := DestinationPinyin(in); got != want {
			t.Fatalf("DestinationPinyin(%q)=%q want %q", in, got, want)
		}
	}
}

func TestFirstMatch(t *testing.T) {
	var miss Rule[int] = func(string) (int, bool) { return 0, false }
	hit := func(v int) Rule[int] {
		return func(string) (int, bool) { return v, true }
	}
	if v, ok := FirstMatch("x", miss, hit(1), hit(2)); !ok || v != 1 {
		t.Fatalf("FirstMatch=%d,%v want 1,true", v, ok)
	}
	if _, ok := FirstMatch[int]("x", miss); ok {
		t.Fatalf("FirstMatch with only misses must not match")
	}
}
