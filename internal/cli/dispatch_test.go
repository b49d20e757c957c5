package cli_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"taskdeck/internal/cli"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("Usage:")) {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if stdout.String() != "taskdeck 0.1.0\n" {
		t.Errorf("expected 'taskdeck 0.1.0\\n', got %q", stdout.String())
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help", "--unknown"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: 1, Title: "first"})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "first") {
		t.Errorf("expected task list, got %q", stdout.String())
	}
	if svc.CallCount("ListTasks") != 1 {
		t.Errorf("expected one ListTasks call, got %d", svc.CallCount("ListTasks"))
	}
}

func TestDispatcher_CommandFlags(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: 1, Title: "open"})
	svc.AddTask(service.Task{ID: 2, Title: "closed", Status: service.StatusDone})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	args := []string{"list", "--config", t.TempDir(), "--filter", "completed"}
	code := dispatcher.Run(context.Background(), args, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr.String())
	}
	if strings.Contains(stdout.String(), "open") || !strings.Contains(stdout.String(), "closed") {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestDispatcher_QuietSuppressesOK(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: 4, Title: "x"})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	args := []string{"done", "--config", t.TempDir(), "--quiet", "4"}
	code := dispatcher.Run(context.Background(), args, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr.String())
	}
	if stdout.String() != "" {
		t.Errorf("expected no output, got %q", stdout.String())
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, errors.New("invalid api_url")
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--config", t.TempDir()}, &stdout, &stderr)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr.String() != "error: invalid api_url\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestDispatcher_NoFactory(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"stats", "--config", t.TempDir()}, &stdout, &stderr)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr.String() != "error: no backend configured\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version", "--config", t.TempDir(), "--debug"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr.String(), "dispatch") {
		t.Errorf("expected debug log on stderr, got %q", stderr.String())
	}
	if stdout.String() != "taskdeck 0.1.0\n" {
		t.Errorf("unexpected stdout %q", stdout.String())
	}
}
