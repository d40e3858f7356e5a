package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestTruncateForLog(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"longer than the limit", 6, "longer..."},
		{"  padded  ", 10, "padded"},
		{"anything", 0, ""},
		{"пример текста", 6, "пример..."},
	}

	for _, tc := range cases {
		if got := TruncateForLog(tc.in, tc.limit); got != tc.want {
			t.Errorf("TruncateForLog(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestNew(t *testing.T) {
	for _, jsonFormat := range []bool{false, true} {
		for _, debug := range []bool{false, true} {
			log, err := New(jsonFormat, debug)
			if err != nil {
				t.Fatalf("New(%v, %v): %v", jsonFormat, debug, err)
			}

			if got := log.Core().Enabled(zapcore.DebugLevel); got != debug {
				t.Fatalf("New(%v, %v): debug enabled = %v", jsonFormat, debug, got)
			}
		}
	}
}
