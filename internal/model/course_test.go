package model

import (
	"encoding/json"
	"testing"
)

func TestTotalLectures(t *testing.T) {
	c := Course{Chapters: ChapterList{
		{ChapterID: "ch1", Lectures: []Lecture{{LectureID: "l1"}, {LectureID: "l2"}, {LectureID: "l3"}}},
		{ChapterID: "ch2", Lectures: []Lecture{{LectureID: "l4"}, {LectureID: "l5"}}},
	}}
	if got := c.TotalLectures(); got != 5 {
		t.Errorf("TotalLectures = %d, want 5", got)
	}
	empty := Course{}
	if got := empty.TotalLectures(); got != 0 {
		t.Errorf("TotalLectures on empty course = %d, want 0", got)
	}
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings RatingList
		want    float64
	}{
		{"no ratings", RatingList{}, 0},
		{"single", RatingList{{UserID: "u1", Rating: 5}}, 5.0},
		{"mean rounds to one decimal", RatingList{{UserID: "u1", Rating: 4}, {UserID: "u2", Rating: 5}, {UserID: "u3", Rating: 5}}, 4.7},
		{"exact mean", RatingList{{UserID: "u1", Rating: 3}, {UserID: "u2", Rating: 5}}, 4.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Course{Ratings: tt.ratings}
			if got := c.AverageRating(); got != tt.want {
				t.Errorf("AverageRating = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		price    float64
		discount float64
		want     float64
	}{
		{100, 0, 100},
		{100, 25, 75},
		{49.99, 10, 44.99},
		{19.99, 33, 13.39},
		{100, 100, 0},
	}
	for _, tt := range tests {
		c := Course{Price: tt.price, Discount: tt.discount}
		if got := c.DiscountedPrice(); got != tt.want {
			t.Errorf("DiscountedPrice(%v, %v%%) = %v, want %v", tt.price, tt.discount, got, tt.want)
		}
	}
}

func TestRatingListUpsert(t *testing.T) {
	r := RatingList{}
	r = r.Upsert("u1", 3)
	r = r.Upsert("u2", 4)
	r = r.Upsert("u1", 5)

	if len(r) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(r))
	}
	for _, entry := range r {
		if entry.UserID == "u1" && entry.Rating != 5 {
			t.Errorf("u1 rating = %d, want 5", entry.Rating)
		}
	}
}

func TestStringListAddIsIdempotent(t *testing.T) {
	s := StringList{}
	s = s.Add("a")
	s = s.Add("b")
	s = s.Add("a")
	if len(s) != 2 {
		t.Errorf("expected 2 entries, got %v", s)
	}
	if !s.Contains("a") || !s.Contains("b") || s.Contains("c") {
		t.Errorf("membership wrong: %v", s)
	}
}

func TestJSONBScanRoundTrip(t *testing.T) {
	chapters := ChapterList{{
		ChapterID: "ch1",
		Order:     1,
		Title:     "Intro",
		Lectures: []Lecture{{
			LectureID:       "l1",
			Order:           1,
			Title:           "Welcome",
			DurationMinutes: 12.5,
			VideoSource:     VideoSourceYouTube,
			URL:             "dQw4w9WgXcQ",
			IsPreviewFree:   true,
		}},
	}}

	value, err := chapters.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}
	var scanned ChapterList
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(scanned) != 1 || len(scanned[0].Lectures) != 1 {
		t.Fatalf("round trip lost structure: %+v", scanned)
	}
	if scanned[0].Lectures[0].URL != "dQw4w9WgXcQ" {
		t.Errorf("lecture URL = %q", scanned[0].Lectures[0].URL)
	}
}

func TestJSONBScanNullAndEmpty(t *testing.T) {
	var s StringList
	if err := s.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) returned error: %v", err)
	}
	if s == nil || len(s) != 0 {
		t.Errorf("Scan(nil) should yield empty non-nil list, got %#v", s)
	}

	var r RatingList
	if err := r.Scan([]byte{}); err != nil {
		t.Fatalf("Scan(empty) returned error: %v", err)
	}
	if r == nil || len(r) != 0 {
		t.Errorf("Scan(empty) should yield empty non-nil list, got %#v", r)
	}
}

func TestNilListValueEncodesEmptyArray(t *testing.T) {
	var s StringList
	value, err := s.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}
	var decoded []string
	if err := json.Unmarshal(value.([]byte), &decoded); err != nil {
		t.Fatalf("Value produced invalid JSON: %v", err)
	}
	if decoded == nil || len(decoded) != 0 {
		t.Errorf("nil list should encode as [], got %s", value)
	}
}
