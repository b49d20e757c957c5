package exitcode_test

import (
	"errors"
	"fmt"
	"testing"

	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitcode.Success},
		{"stale id", service.NotFound("update task", 7), exitcode.UserError},
		{"wrapped 404", fmt.Errorf("delete task 3: %w", &service.Error{Kind: service.KindNotFound, Op: "delete task", Status: 404, Err: service.ErrNotFound}), exitcode.UserError},
		{"auth", &service.Error{Kind: service.KindAuth, Op: "list tasks", Status: 401}, exitcode.AuthError},
		{"transport", &service.Error{Kind: service.KindTransport, Op: "list tasks", Err: errors.New("timed out")}, exitcode.BackendError},
		{"status", fmt.Errorf("load: %w", &service.Error{Kind: service.KindStatus, Op: "list tasks", Status: 500}), exitcode.BackendError},
		{"plain", errors.New("title required"), exitcode.UserError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitcode.FromError(tt.err); got != tt.want {
				t.Errorf("FromError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
