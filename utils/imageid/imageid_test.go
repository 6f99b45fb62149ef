package imageid

import (
	"strings"
	"testing"
	"time"
)

func TestNewAt(t *testing.T) {
	at := time.Date(2023, 6, 15, 10, 30, 45, 123456000, time.UTC)

	tests := []struct {
		name       string
		filename   string
		wantPrefix string
		wantSuffix string
	}{
		{
			name:       "plain filename",
			filename:   "photo.jpg",
			wantPrefix: "2023-06-15T10-30-45.123456_",
			wantSuffix: "-photo.jpg",
		},
		{
			name:       "filename with spaces",
			filename:   "my holiday photo.png",
			wantPrefix: "2023-06-15T10-30-45.123456_",
			wantSuffix: "-my_holiday_photo.png",
		},
		{
			name:       "filename with path separators",
			filename:   "../etc/passwd",
			wantPrefix: "2023-06-15T10-30-45.123456_",
			wantSuffix: "-.._etc_passwd",
		},
		{
			name:       "empty filename",
			filename:   "",
			wantPrefix: "2023-06-15T10-30-45.123456_",
			wantSuffix: "-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAt(at, tt.filename)
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("NewAt() = %q, want prefix %q", got, tt.wantPrefix)
			}
			if !strings.HasSuffix(got, tt.wantSuffix) {
				t.Errorf("NewAt() = %q, want suffix %q", got, tt.wantSuffix)
			}
			if strings.Contains(got, ":") {
				t.Errorf("NewAt() = %q contains a colon", got)
			}
		})
	}
}

func TestNewAt_SortsByTime(t *testing.T) {
	earlier := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

	a := NewAt(earlier, "a.jpg")
	b := NewAt(later, "a.jpg")

	if a >= b {
		t.Errorf("id for earlier time should sort first: %q >= %q", a, b)
	}
}

func TestNewAt_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	at := time.Date(2023, 6, 15, 17, 0, 0, 0, loc)

	got := NewAt(at, "a.jpg")
	if !strings.HasPrefix(got, "2023-06-15T10-00-00.000000_") {
		t.Errorf("NewAt() = %q, want UTC-normalized prefix", got)
	}
}

func TestNew_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New("photo.jpg")
		if seen[id] {
			t.Fatalf("New() generated duplicate id: %v", id)
		}
		seen[id] = true
	}
}

func TestFormatUploadTime(t *testing.T) {
	at := time.Date(2023, 6, 15, 10, 30, 45, 123456000, time.UTC)
	got := FormatUploadTime(at)
	want := "2023-06-15T10:30:45.123456"
	if got != want {
		t.Errorf("FormatUploadTime() = %q, want %q", got, want)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{name: "already safe", filename: "photo-01_v2.jpg", want: "photo-01_v2.jpg"},
		{name: "spaces", filename: "a b c.png", want: "a_b_c.png"},
		{name: "unicode", filename: "фото.jpg", want: "____.jpg"},
		{name: "slashes", filename: "a/b\\c", want: "a_b_c"},
		{name: "empty", filename: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.filename); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
