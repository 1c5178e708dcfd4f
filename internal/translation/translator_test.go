package translation

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestTranslator_TranslateBatch(t *testing.T) {
	cfg := &Config{SourceLanguage: "English", TargetLanguage: "Simplified Chinese"}
	stub := &stubDispatcher{replies: []string{`{"translations":["你好","世界*粗体*"]}`}}
	tr := NewTranslator(cfg, stub)

	got, raw, err := tr.TranslateBatch(context.Background(), []string{"a", "b"}, []string{"Hello", "World *bold*"})
	if err != nil {
		t.Fatalf("TranslateBatch() error = %v", err)
	}

	want := map[string]string{"a": "你好", "b": "世界*粗体*"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TranslateBatch() = %v, want %v", got, want)
	}
	if raw != stub.replies[0] {
		t.Errorf("raw = %s", raw)
	}
	if len(stub.requests) != 1 || stub.requests[0].User != `{"texts":["Hello","World *bold*"]}` {
		t.Errorf("requests = %+v", stub.requests)
	}
	if tr.Backend() != "stub" {
		t.Errorf("Backend() = %s", tr.Backend())
	}
}

func TestTranslator_TranslateBatch_Errors(t *testing.T) {
	cfg := &Config{}
	boom := errors.New("connection reset")

	t.Run("dispatch failure", func(t *testing.T) {
		tr := NewTranslator(cfg, &stubDispatcher{errs: []error{boom}})
		_, _, err := tr.TranslateBatch(context.Background(), []string{"a"}, []string{"Hello"})

		var dispatchErr *DispatchError
		if !errors.As(err, &dispatchErr) {
			t.Fatalf("error = %v, want *DispatchError", err)
		}
		if !errors.Is(err, boom) {
			t.Errorf("DispatchError does not unwrap to cause")
		}
		if dispatchErr.Backend != "stub" {
			t.Errorf("Backend = %s", dispatchErr.Backend)
		}
	})

	t.Run("count mismatch keeps raw reply", func(t *testing.T) {
		tr := NewTranslator(cfg, &stubDispatcher{replies: []string{`{"translations":["你好"]}`}})
		got, raw, err := tr.TranslateBatch(context.Background(), []string{"a", "b"}, []string{"Hello", "World"})
		if !errors.Is(err, ErrCountMismatch) {
			t.Fatalf("error = %v, want ErrCountMismatch", err)
		}
		if got != nil {
			t.Errorf("expected no partial result, got %v", got)
		}
		if raw != `{"translations":["你好"]}` {
			t.Errorf("raw = %s", raw)
		}
	})

	t.Run("length mismatch between keys and values", func(t *testing.T) {
		stub := &stubDispatcher{}
		tr := NewTranslator(cfg, stub)
		if _, _, err := tr.TranslateBatch(context.Background(), []string{"a"}, nil); err == nil {
			t.Fatal("expected error")
		}
		if len(stub.requests) != 0 {
			t.Error("request dispatched for an invalid batch")
		}
	})
}
