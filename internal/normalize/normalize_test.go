package normalize

import (
	"testing"
	"time"

	"github.com/pcctrack/pcc-tracker/internal/model"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{name: "plain number", in: 1200.0, want: 1200},
		{name: "integer", in: 750, want: 750},
		{name: "currency text with separators", in: "৳ 12,500.00", want: 12500},
		{name: "plain text number", in: "4500", want: 4500},
		{name: "text with whitespace", in: "  300  ", want: 300},
		{name: "empty string", in: "", want: 0},
		{name: "nil", in: nil, want: 0},
		{name: "garbage", in: "n/a", want: 0},
		{name: "multiple dots", in: "1.2.3", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Money(tt.in); got != tt.want {
				t.Fatalf("Money(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "native date value", in: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), want: "2024-01-02"},
		{name: "iso text", in: "2024-03-04", want: "2024-03-04"},
		{name: "spreadsheet default layout", in: "3/4/24", want: "2024-03-04"},
		{name: "free text kept verbatim", in: " next week ", want: "next week"},
		{name: "empty defaults to today", in: "", want: "2024-06-15"},
		{name: "nil defaults to today", in: nil, want: "2024-06-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Date(tt.in, now); got != tt.want {
				t.Fatalf("Date(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		in   string
		want model.DeliveryStatus
	}{
		{in: "Delivered", want: model.StatusDelivered},
		{in: "DELIVERED on 2024-01-02", want: model.StatusDelivered},
		{in: "done", want: model.StatusDelivered},
		{in: "সম্পন্ন", want: model.StatusDelivered},
		{in: "Pending", want: model.StatusPending},
		{in: "", want: model.StatusPending},
		{in: "in progress", want: model.StatusPending},
	}

	for _, tt := range tests {
		if got := Status(tt.in); got != tt.want {
			t.Fatalf("Status(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestText(t *testing.T) {
	if got := Text(nil); got != "" {
		t.Fatalf("Text(nil) = %q, want empty", got)
	}
	if got := Text("  AB1234  "); got != "AB1234" {
		t.Fatalf("Text = %q, want AB1234", got)
	}
	if got := Text(42); got != "42" {
		t.Fatalf("Text(42) = %q, want 42", got)
	}
}
