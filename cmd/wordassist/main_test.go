package main

import (
	"errors"
	"testing"
)

type closeRecorder struct {
	closed int
	err    error
}

func (c *closeRecorder) Close() error {
	c.closed++
	return c.err
}

func TestFatalAfterInitClosesEngine(t *testing.T) {
	testCases := []struct {
		closeErr    error
		description string
	}{
		{nil, "clean flush"},
		{errors.New("disk full"), "flush error still exits"},
	}

	for _, tc := range testCases {
		code := -1
		exit = func(c int) { code = c }
		rec := &closeRecorder{err: tc.closeErr}

		fatalAfterInit(rec, "Server error: %v", errors.New("broken pipe"))

		if rec.closed != 1 {
			t.Errorf("%s: Close called %d times, expected 1", tc.description, rec.closed)
		}
		if code != 1 {
			t.Errorf("%s: exit code = %d, expected 1", tc.description, code)
		}
	}
	exit = osExit
}
