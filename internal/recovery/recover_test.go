package recovery

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRecoverToValue(t *testing.T) {
	v, err := RecoverToValue(discard, "ok", func() (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Fatalf("got (%d, %v), want (7, nil)", v, err)
	}

	sentinel := errors.New("boom")
	_, err = RecoverToValue(discard, "fails", func() (int, error) { return 0, sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("error not passed through: %v", err)
	}

	v, err = RecoverToValue(discard, "Compile mongo", func() (int, error) { panic("bad pass") })
	if err == nil || v != 0 {
		t.Fatalf("got (%d, %v), want zero value and error", v, err)
	}
	if !strings.Contains(err.Error(), "Compile mongo panicked: bad pass") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestRecoverToStatus(t *testing.T) {
	_, err := RecoverToStatus(discard, "Compile", func() (string, error) {
		var m map[string]int
		m["x"]++
		return "", nil
	})
	if status.Code(err) != codes.Internal {
		t.Fatalf("code = %v, want Internal", status.Code(err))
	}
}
