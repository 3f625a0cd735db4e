package encerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/user/vaencoder/pkg/ports"
)

func TestDriver_WrapsStatus(t *testing.T) {
	err := Driver("vaCreateConfig", ports.StatusInvalidConfig)

	if !errors.Is(err, ErrDriverFailure) {
		t.Fatalf("expected ErrDriverFailure, got %v", err)
	}

	var st ports.Status
	if !errors.As(err, &st) {
		t.Fatal("expected ports.Status to be recoverable")
	}
	if st != ports.StatusInvalidConfig {
		t.Errorf("expected status 0x%x, got 0x%x", ports.StatusInvalidConfig, st)
	}
}

func TestDriver_NilIsNil(t *testing.T) {
	if err := Driver("vaSyncSurface", nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestDriver_ForeignError(t *testing.T) {
	cause := errors.New("device lost")
	err := Driver("vaEndPicture", cause)

	if StatusOf(err) != ports.StatusOperationFailed {
		t.Errorf("expected operation failed status, got %v", StatusOf(err))
	}
	if !errors.Is(err, cause) {
		t.Error("expected original cause to be kept")
	}
}

func TestDriver_DoesNotDoubleWrap(t *testing.T) {
	inner := Driver("vaMapBuffer", ports.StatusInvalidBuffer)
	outer := Driver("getCoded", fmt.Errorf("map: %w", inner))

	var de *DriverError
	if !errors.As(outer, &de) {
		t.Fatal("expected DriverError")
	}
	if de.Op != "vaMapBuffer" {
		t.Errorf("expected innermost op to win, got %s", de.Op)
	}
}

func TestStatusOf_NonDriverError(t *testing.T) {
	if st := StatusOf(ErrInvalidState); st != ports.StatusSuccess {
		t.Errorf("expected success status, got %v", st)
	}
}

func TestTeardown_AggregatesInOrder(t *testing.T) {
	var td Teardown
	td.Step("vaDestroyBuffer", ports.StatusInvalidBuffer)
	td.Step("vaDestroyContext", nil)
	td.Step("vaDestroyConfig", ports.StatusInvalidConfig)

	err := td.Err()
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if !errors.Is(err, ErrDriverFailure) {
		t.Error("expected aggregate to match ErrDriverFailure")
	}

	want := ports.StatusInvalidBuffer | ports.StatusInvalidConfig
	if got := CombinedStatus(err); got != want {
		t.Errorf("expected combined status 0x%x, got 0x%x", want, got)
	}
}

func TestTeardown_AllSucceeded(t *testing.T) {
	var td Teardown
	td.Step("vaTerminate", nil)
	if err := td.Err(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if st := CombinedStatus(td.Err()); st != ports.StatusSuccess {
		t.Errorf("expected success, got %v", st)
	}
}
