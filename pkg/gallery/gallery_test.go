package gallery

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"gitlab.com/tinyland/lab/eventreel/pkg/rotation"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleEvents() []Event {
	return []Event{
		{ID: 1, Title: "Graduation Ceremony", Category: Academic, Date: day(2023, 6, 20)},
		{ID: 2, Title: "Spring Music Festival", Category: Cultural, Date: day(2023, 4, 15), Featured: true},
		{ID: 3, Title: "Tech Hackathon", Category: Technical, Date: day(2023, 3, 10)},
		{ID: 4, Title: "Basketball Championship", Category: Sports, Date: day(2023, 5, 5), Featured: true},
		{ID: 5, Title: "Science Fair", Category: Academic, Date: day(2023, 2, 15)},
		{ID: 9, Title: "Inter-College Championships", Category: Sports, Date: day(2023, 7, 15), Featured: true},
	}
}

func ids(events []Event) []int {
	out := make([]int, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"", All, false},
		{"all", All, false},
		{"SPORTS", Sports, false},
		{" technical ", Technical, false},
		{"Music", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if All.Valid() {
		t.Error("All must not be a storable category")
	}
}

func TestFilterApply(t *testing.T) {
	events := sampleEvents()
	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"zero", Filter{}, []int{1, 2, 3, 4, 5, 9}},
		{"all", Filter{Category: All}, []int{1, 2, 3, 4, 5, 9}},
		{"sports", Filter{Category: Sports}, []int{4, 9}},
		{"query case-insensitive", Filter{Query: "CHAMP"}, []int{4, 9}},
		{"category and query", Filter{Category: Academic, Query: "fair"}, []int{5}},
		{"no match", Filter{Category: Technical, Query: "music"}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(tt.filter.Apply(events))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFeaturedAndSlices(t *testing.T) {
	events := sampleEvents()
	if diff := cmp.Diff([]int{2, 4, 9}, ids(FeaturedOnly(events))); diff != "" {
		t.Errorf("FeaturedOnly (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, ids(HeroSlides(events, 3))); diff != "" {
		t.Errorf("HeroSlides (-want +got):\n%s", diff)
	}
	if got := FeaturedSlice(events[:2], 5); len(got) != 2 {
		t.Errorf("FeaturedSlice over short list = %d items, want 2", len(got))
	}
	if got := HeroSlides(nil, 3); len(got) != 0 {
		t.Errorf("HeroSlides(nil) = %v", got)
	}
}

func TestPager(t *testing.T) {
	p := NewPager(0, 0)
	p.SetTotal(15)
	if p.Visible() != 8 || !p.HasMore() {
		t.Fatalf("initial: visible=%d hasMore=%v", p.Visible(), p.HasMore())
	}
	if p.Remaining() != 4 {
		t.Errorf("Remaining = %d, want 4", p.Remaining())
	}
	p.More()
	if p.Visible() != 12 {
		t.Errorf("after More: visible=%d, want 12", p.Visible())
	}
	if p.Remaining() != 3 {
		t.Errorf("Remaining near the end = %d, want 3", p.Remaining())
	}
	p.More()
	if p.Visible() != 15 || p.HasMore() {
		t.Errorf("after second More: visible=%d hasMore=%v", p.Visible(), p.HasMore())
	}
	p.More()
	if p.Visible() != 15 {
		t.Errorf("More past the end changed visible to %d", p.Visible())
	}
	p.Reset()
	if p.Visible() != 8 {
		t.Errorf("after Reset: visible=%d", p.Visible())
	}

	p.SetTotal(3)
	if got := len(p.Page(sampleEvents()[:3])); got != 3 {
		t.Errorf("Page len = %d, want 3", got)
	}
}

func TestLightbox(t *testing.T) {
	ev := Event{ID: 7, Photos: []Photo{{ID: 13, URL: "a"}, {ID: 14, URL: "b"}, {ID: 15, URL: "c"}}}
	var lb Lightbox

	if _, ok := lb.Photo(); ok {
		t.Fatal("closed lightbox should have no photo")
	}
	lb.Open(ev)
	if !lb.IsOpen() || lb.Index() != 0 {
		t.Fatalf("open: isOpen=%v index=%d", lb.IsOpen(), lb.Index())
	}

	lb.Previous()
	if lb.Index() != 2 || lb.Direction() != rotation.Backward {
		t.Errorf("previous from 0: index=%d dir=%v", lb.Index(), lb.Direction())
	}
	lb.Next()
	if lb.Index() != 0 || lb.Direction() != rotation.Forward {
		t.Errorf("next from 2: index=%d dir=%v", lb.Index(), lb.Direction())
	}

	if lb.GoTo(3) || lb.GoTo(-1) {
		t.Error("out-of-range GoTo should be rejected")
	}
	if !lb.GoTo(1) {
		t.Fatal("GoTo(1) rejected")
	}
	if p, _ := lb.Photo(); p.URL != "b" {
		t.Errorf("photo = %q, want b", p.URL)
	}

	lb.Close()
	if lb.IsOpen() || lb.Index() != 0 || lb.Len() != 0 {
		t.Errorf("close did not reset: %+v", lb)
	}
}

func TestLightboxAccessorsOnCopy(t *testing.T) {
	var lb Lightbox
	lb.Open(Event{ID: 3, Photos: []Photo{{ID: 1, URL: "a"}, {ID: 2, URL: "b"}}})
	lb.Next()
	view := func() Lightbox { return lb }

	if !view().IsOpen() || view().Index() != 1 || view().Len() != 2 {
		t.Errorf("copy: isOpen=%v index=%d len=%d", view().IsOpen(), view().Index(), view().Len())
	}
	if p, ok := view().Photo(); !ok || p.URL != "b" {
		t.Errorf("copy photo = %q, %v", p.URL, ok)
	}
	if view().Event().ID != 3 || view().Direction() != rotation.Forward {
		t.Errorf("copy event=%d dir=%v", view().Event().ID, view().Direction())
	}
}

func TestSameEvents(t *testing.T) {
	events := sampleEvents()
	reordered := append([]Event{events[1], events[0]}, events[2:]...)

	tests := []struct {
		name string
		a, b []Event
		want bool
	}{
		{"identical", events, sampleEvents(), true},
		{"both empty", nil, []Event{}, true},
		{"shorter", events, events[1:], false},
		{"reordered", events, reordered, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameEvents(tt.a, tt.b); got != tt.want {
				t.Errorf("SameEvents() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLightboxWithoutPhotos(t *testing.T) {
	var lb Lightbox
	lb.Open(Event{ID: 1})
	lb.Next()
	lb.Previous()
	if !lb.IsOpen() || lb.Index() != 0 {
		t.Errorf("isOpen=%v index=%d", lb.IsOpen(), lb.Index())
	}
	if _, ok := lb.Photo(); ok {
		t.Error("event without photos has no current photo")
	}
}

func TestEventJSON(t *testing.T) {
	ev := Event{
		ID:       2,
		Title:    "Spring Music Festival",
		Date:     day(2023, 4, 15),
		Category: Cultural,
		Featured: true,
		Photos:   []Photo{{ID: 3, URL: "u", EventID: 2}},
	}
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"isFeatured":1`, `"eventId":2`, `"date":"2023-04-15T00:00:00Z"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("encoded %s missing %s", data, want)
		}
	}

	var back Event
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ev, back); diff != "" {
		t.Errorf("decode mismatch (-want +got):\n%s", diff)
	}

	if err := json.Unmarshal([]byte(`{"id":1,"isFeatured":true}`), &back); err != nil || !back.Featured {
		t.Errorf("bool isFeatured: featured=%v err=%v", back.Featured, err)
	}
	if err := json.Unmarshal([]byte(`{"id":1,"isFeatured":"yes"}`), &back); err == nil {
		t.Error("expected error for string isFeatured")
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(day(2023, 6, 20)); got != "June 20, 2023" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDate(time.Time{}); got != "" {
		t.Errorf("zero date = %q, want empty", got)
	}
}
