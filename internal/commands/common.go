package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
	"taskdeck/internal/store"
)

// newStore builds a store over svc using the dispatch logger and settings.
func newStore(ctx context.Context, cfg *config.Config, svc service.Service) *store.Store {
	return store.New(svc,
		store.WithLogger(*zerolog.Ctx(ctx)),
		store.WithPositionSync(!cfg.Settings.LocalOrder),
	)
}

// loadStore builds a store and loads the task list.
func loadStore(ctx context.Context, cfg *config.Config, svc service.Service) (*store.Store, error) {
	s := newStore(ctx, cfg, svc)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// fail reports err and returns the matching exit code.
func fail(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
	case service.KindOf(err) == service.KindAuth:
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
	case service.KindOf(err) != 0:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.FromError(err)
}

// usageError reports a user error.
func usageError(errOut io.Writer, format string, args ...any) int {
	fmt.Fprintf(errOut, "error: "+format+"\n", args...)
	return exitcode.UserError
}

// ok prints "ok" unless quiet.
func ok(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// parseDue parses a YYYY-MM-DD due date as the end of that local day.
func parseDue(s string) (*time.Time, error) {
	d, err := time.ParseInLocation(output.DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid due date: %s (want YYYY-MM-DD)", s)
	}
	due := service.EndOfDay(d)
	return &due, nil
}

// optString is a flag that records whether it was set.
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// ptr returns a pointer to the value if the flag was set, nil otherwise.
func (o *optString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}
