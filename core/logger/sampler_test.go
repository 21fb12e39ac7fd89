package logger

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestRatioSamplerWindow(t *testing.T) {
	s := newRatioSampler(2, 5)
	var got []bool
	for i := 0; i < 10; i++ {
		got = append(got, s.Allow())
	}
	want := []bool{true, true, false, false, false, true, true, false, false, false}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Allow #%d = %v, want %v (%v)", i, got[i], want[i], got)
		}
	}
}

func TestRatioSamplerDisabledPassesAll(t *testing.T) {
	s := newRatioSampler(0, 0)
	for i := 0; i < 3; i++ {
		if !s.Allow() {
			t.Fatal("disabled sampler must allow everything")
		}
	}
	s.Set(5, 2)
	if !s.Allow() || !s.Allow() || !s.Allow() {
		t.Fatal("numerator above denominator should clamp to always")
	}
}

func TestParseRatioSpec(t *testing.T) {
	cases := map[string][2]int{
		"1/50":  {1, 50},
		" 3/4 ": {3, 4},
		"20":    {1, 20},
		"off":   {0, 0},
		"x/2":   {0, 0},
		"-5":    {0, 0},
		"":      {0, 0},
	}
	for in, want := range cases {
		num, den := parseRatioSpec(in)
		if num != want[0] || den != want[1] {
			t.Fatalf("parseRatioSpec(%q) = %d/%d, want %d/%d", in, num, den, want[0], want[1])
		}
	}
}

type failingSink struct{}

func (failingSink) Write([]byte) (int, error) { return 0, errors.New("sink down") }

func TestAsyncWriterKeepsHealthySinks(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{failingSink{}, buf}, 16)
	for _, line := range []string{"one\n", "two\n"} {
		if err := aw.Write([]byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	err := aw.Close()
	if err == nil || !strings.Contains(err.Error(), "sink down") {
		t.Fatalf("close err = %v", err)
	}
	if buf.String() != "one\ntwo\n" {
		t.Fatalf("healthy sink got %q", buf.String())
	}
}

func TestAsyncWriterRejectsWritesAfterClose(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 0)
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := aw.Write([]byte("late\n")); !errors.Is(err, errWriterClosed) {
		t.Fatalf("write after close = %v", err)
	}
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush after close: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
