package report

import (
	"math"
	"testing"
	"unicode/utf8"
)

func TestLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"snr", "SNR"},
		{"tpm_overlap_csf", "TPM Overlap CSF"},
		{"fd_mean", "FD Mean"},
		{"summary_bg_mean", "Summary Bg Mean"},
		{"bids_meta.EchoTime", "Echotime"},
		{"pos_good_bold", "Pos Good Bold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Label(tt.name); got != tt.want {
				t.Errorf("Label(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestFormatFloat(t *testing.T) {
	t.Parallel()

	if got := formatFloat(1.23456, 2); got != "1.23" {
		t.Errorf("expected 1.23, got %s", got)
	}
	if got := formatFloat(math.NaN(), 2); got != "-" {
		t.Errorf("expected - for NaN, got %s", got)
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	if got := truncateString("short", 10); got != "short" {
		t.Errorf("expected short, got %s", got)
	}
	if got := truncateString("a long criteria string", 10); got != "a long ..." {
		t.Errorf("expected 'a long ...', got %q", got)
	}
	if got := truncateString("Universitätsklinikum", 8); got != "Unive..." {
		t.Errorf("expected 'Unive...', got %q", got)
	}
	if got := truncateString("Universitätsklinikum", 13); got != "Universitä..." {
		t.Errorf("expected 'Universitä...', got %q", got)
	}
	if got := truncateString("Universität", 11); got != "Universität" {
		t.Errorf("expected rune count to decide, got %q", got)
	}

	s := truncateString("==Universitätsklinikum Essen", 12)
	if !utf8.ValidString(s) {
		t.Errorf("expected valid UTF-8, got %q", s)
	}
	if s != "==Univers..." {
		t.Errorf("expected '==Univers...', got %q", s)
	}
	if got := truncateString("äöü", 2); got != "äö" {
		t.Errorf("expected 'äö', got %q", got)
	}
}
