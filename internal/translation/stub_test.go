package translation

import (
	"context"
	"errors"
)

// stubDispatcher replays canned replies in order
type stubDispatcher struct {
	replies  []string
	errs     []error
	requests []Request
}

func (s *stubDispatcher) Name() string {
	return "stub"
}

func (s *stubDispatcher) Dispatch(ctx context.Context, req Request) (string, error) {
	i := len(s.requests)
	s.requests = append(s.requests, req)

	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", errors.New("no stubbed reply")
}
