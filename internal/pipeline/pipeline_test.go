package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cdkinit/cdkinit/internal/assets"
	"github.com/cdkinit/cdkinit/internal/installer"
	"github.com/cdkinit/cdkinit/internal/naming"
	"github.com/cdkinit/cdkinit/internal/remote"
	"github.com/cdkinit/cdkinit/internal/scaffold"
	"github.com/cdkinit/cdkinit/internal/ui"
)

func TestRunSkipInstall(t *testing.T) {
	srv := newDocServer(t)
	runner := &fakeRunner{out: &installer.Output{}}
	var progress bytes.Buffer
	p := newPipeline(srv.URL+"/tsconfig.json", srv.URL+"/biome.json", runner, &progress)
	root := t.TempDir()

	res, err := p.Run(context.Background(), Options{Name: "my cdk app", Root: root, SkipInstall: true})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if runner.calls != 0 {
		t.Errorf("runner called %d times, want 0", runner.calls)
	}
	if !res.Created || res.Installed {
		t.Errorf("Created=%v Installed=%v, want true/false", res.Created, res.Installed)
	}
	if res.Names.Normalized != "my-cdk-app" {
		t.Errorf("Normalized = %q", res.Names.Normalized)
	}
	if len(res.Files) != 13 {
		t.Errorf("wrote %d files, want 13", len(res.Files))
	}
	if res.Layout.Base != filepath.Join(root, "my-cdk-app") {
		t.Errorf("Base = %q", res.Layout.Base)
	}

	ts, err := os.ReadFile(filepath.Join(res.Layout.Base, "tsconfig.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(ts) != tsconfigDoc {
		t.Errorf("tsconfig.json = %q, want fetched body", ts)
	}
	assertNoTokens(t, res.Layout.Base)

	out := progress.String()
	if !strings.Contains(out, "Creating a new CDK project with name my-cdk-app...") {
		t.Errorf("missing start message in %q", out)
	}
	if !strings.Contains(out, "Writing 13 files to "+res.Layout.Base+"...") {
		t.Errorf("missing write step title in %q", out)
	}
	if !strings.Contains(out, "Scaffolding complete!") {
		t.Errorf("missing completion message in %q", out)
	}
	if strings.Contains(out, "Installing") {
		t.Errorf("install spinner shown despite SkipInstall: %q", out)
	}
}

func TestRunInstalls(t *testing.T) {
	srv := newDocServer(t)
	runner := &fakeRunner{out: &installer.Output{}}
	var progress bytes.Buffer
	p := newPipeline(srv.URL+"/tsconfig.json", srv.URL+"/biome.json", runner, &progress)

	res, err := p.Run(context.Background(), Options{Name: "my-cdk-app", Root: t.TempDir()})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Installed {
		t.Error("Installed = false, want true")
	}
	if runner.calls != 1 || runner.dir != res.Layout.Base {
		t.Errorf("runner calls=%d dir=%q, want 1 call in %q", runner.calls, runner.dir, res.Layout.Base)
	}
	if !strings.Contains(progress.String(), "Installing npm packages...") ||
		!strings.Contains(progress.String(), "New CDK project created successfully!") {
		t.Errorf("unexpected progress output: %q", progress.String())
	}
}

func TestRunInstallFailureKeepsFiles(t *testing.T) {
	srv := newDocServer(t)
	runner := &fakeRunner{out: &installer.Output{ExitCode: 1, Stderr: "npm ERR! network"}}
	p := newPipeline(srv.URL+"/tsconfig.json", srv.URL+"/biome.json", runner, nil)

	res, err := p.Run(context.Background(), Options{Name: "my-cdk-app", Root: t.TempDir()})
	se := assertStage(t, err, StageDependenciesInstalled)
	if !errors.Is(err, installer.ErrInstall) {
		t.Errorf("error = %v, want ErrInstall", err)
	}
	if !strings.Contains(se.Hint(), "npm install") {
		t.Errorf("Hint() = %q, want manual install advice", se.Hint())
	}
	if res == nil || !res.Created || res.Installed {
		t.Fatalf("result = %+v, want created but not installed", res)
	}
	if _, err := os.Stat(filepath.Join(res.Layout.Base, "package.json")); err != nil {
		t.Errorf("package.json should survive an install failure: %v", err)
	}
}

func TestRunRemoteFailureWritesNothing(t *testing.T) {
	srv := newDocServer(t)
	runner := &fakeRunner{out: &installer.Output{}}
	p := newPipeline(srv.URL+"/tsconfig.json", srv.URL+"/missing.json", runner, nil)
	root := t.TempDir()

	res, err := p.Run(context.Background(), Options{Name: "my-cdk-app", Root: root})
	se := assertStage(t, err, StageTemplatesLoaded)
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
	if !errors.Is(err, remote.ErrRemoteFetch) {
		t.Errorf("error = %v, want ErrRemoteFetch", err)
	}
	if se.Hint() == "" {
		t.Error("expected a connectivity hint")
	}
	if _, err := os.Lstat(filepath.Join(root, "my-cdk-app")); !os.IsNotExist(err) {
		t.Errorf("project directory should not exist, Lstat error: %v", err)
	}
	if runner.calls != 0 {
		t.Error("installer must not run after a failed load")
	}
}

func TestRunInvalidName(t *testing.T) {
	p := newPipeline("http://unused.invalid/a", "http://unused.invalid/b", &fakeRunner{}, nil)

	for _, name := range []string{"", "   ", "my/app", "@scope"} {
		t.Run(name, func(t *testing.T) {
			_, err := p.Run(context.Background(), Options{Name: name, Root: t.TempDir()})
			assertStage(t, err, StageNameValidated)
			if !errors.Is(err, naming.ErrInvalidName) {
				t.Errorf("error = %v, want ErrInvalidName", err)
			}
		})
	}
}

func TestRunAlreadyExists(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "taken"), 0755); err != nil {
		t.Fatal(err)
	}
	p := newPipeline("http://unused.invalid/a", "http://unused.invalid/b", &fakeRunner{}, nil)

	_, err := p.Run(context.Background(), Options{Name: "taken", Root: root})
	se := assertStage(t, err, StageNameValidated)
	if !errors.Is(err, naming.ErrAlreadyExists) {
		t.Errorf("error = %v, want ErrAlreadyExists", err)
	}
	if !strings.Contains(se.Hint(), "different name") {
		t.Errorf("Hint() = %q", se.Hint())
	}
}

func TestRunWriteFailure(t *testing.T) {
	srv := newDocServer(t)
	root := t.TempDir()
	p := newPipeline(srv.URL+"/tsconfig.json", srv.URL+"/biome.json", &fakeRunner{}, nil)
	// Occupy a file destination with a directory once the name has been
	// checked, so the failure lands in the write step.
	p.Loader.Fetcher = fetchThen(p.Loader.Fetcher, func() {
		_ = os.MkdirAll(filepath.Join(root, "blocked", "package.json"), 0755)
	})

	_, err := p.Run(context.Background(), Options{Name: "blocked", Root: root, SkipInstall: true})
	se := assertStage(t, err, StageFilesWritten)
	if !errors.Is(err, scaffold.ErrFilesystem) {
		t.Errorf("error = %v, want ErrFilesystem", err)
	}
	if !strings.Contains(se.Hint(), "write") {
		t.Errorf("Hint() = %q", se.Hint())
	}
}

func TestMaterializeStage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Stage
	}{
		{"create directory", &scaffold.FilesystemError{Op: scaffold.OpCreateDir, Path: "x", Err: os.ErrPermission}, StageDirectoriesCreated},
		{"write file", &scaffold.FilesystemError{Op: scaffold.OpWriteFile, Path: "x", Err: os.ErrPermission}, StageFilesWritten},
		{"other", errors.New("boom"), StageFilesWritten},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := materializeStage(tt.err); got != tt.want {
				t.Errorf("materializeStage() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRunLogsStageTransitions(t *testing.T) {
	srv := newDocServer(t)
	var logs bytes.Buffer
	p := newPipeline(srv.URL+"/tsconfig.json", srv.URL+"/biome.json", &fakeRunner{}, nil)
	p.Logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := p.Run(context.Background(), Options{Name: "logged", Root: t.TempDir(), SkipInstall: true}); err != nil {
		t.Fatal(err)
	}
	for _, s := range []Stage{StageStart, StageNameValidated, StageTemplatesLoaded, StageDirectoriesCreated, StageFilesWritten, StageInstallSkipped, StageDone} {
		if !strings.Contains(logs.String(), "stage="+string(s)) {
			t.Errorf("log missing stage %s:\n%s", s, logs.String())
		}
	}
}

func TestStageErrorMessage(t *testing.T) {
	err := &StageError{Stage: StageTemplatesLoaded, Err: errors.New("boom")}
	if err.Error() != "loading templates: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrStage) {
		t.Error("StageError should match ErrStage")
	}
}

// ─── Test Helpers ───

const (
	tsconfigDoc = `{"compilerOptions":{"strict":true}}`
	biomeDoc    = `{"linter":{"enabled":true}}`
)

// fakeRunner stands in for the package manager subprocess.
type fakeRunner struct {
	out   *installer.Output
	err   error
	calls int
	dir   string
}

func (f *fakeRunner) Run(_ context.Context, _ string, _ []string, dir string) (*installer.Output, error) {
	f.calls++
	f.dir = dir
	if f.out == nil && f.err == nil {
		return &installer.Output{}, nil
	}
	return f.out, f.err
}

// hookFetcher runs after before delegating to the wrapped fetcher.
type hookFetcher struct {
	next   scaffold.Fetcher
	before func()
}

func (h *hookFetcher) FetchAll(ctx context.Context, urls ...string) ([][]byte, error) {
	h.before()
	return h.next.FetchAll(ctx, urls...)
}

func fetchThen(next scaffold.Fetcher, before func()) scaffold.Fetcher {
	return &hookFetcher{next: next, before: before}
}

func newDocServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/tsconfig.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(tsconfigDoc))
	})
	mux.HandleFunc("/biome.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(biomeDoc))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newPipeline(tsURL, biomeURL string, runner installer.Runner, progress *bytes.Buffer) *Pipeline {
	p := &Pipeline{
		Loader: &scaffold.Loader{
			Assets:      assets.Embedded(),
			Fetcher:     remote.New(),
			TSConfigURL: tsURL,
			BiomeURL:    biomeURL,
		},
		Installer: &installer.Installer{Runner: runner, Command: "npm"},
	}
	if progress != nil {
		p.Progress = ui.NewHeadlessProgress(progress)
	}
	return p
}

func assertStage(t *testing.T, err error, want Stage) *StageError {
	t.Helper()
	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v (%T), want *StageError", err, err)
	}
	if se.Stage != want {
		t.Fatalf("Stage = %s, want %s (error: %v)", se.Stage, want, err)
	}
	return se
}

func assertNoTokens(t *testing.T, base string) {
	t.Helper()
	err := filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, tok := range []string{scaffold.TokenLower, scaffold.TokenPascal} {
			if strings.Contains(string(data), tok) || strings.Contains(path, tok) {
				t.Errorf("%s still contains %q", path, tok)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
