// Package snaptest asserts rendered images against reference snapshots
// stored next to the test file.
//
//	var snaps = snaptest.New()
//
//	func TestButton(t *testing.T) {
//		snaps.Assert(t, "primary", func() (image.Image, error) {
//			return renderButton()
//		})
//	}
//
// The first run records the baseline and fails; later runs compare
// against it. Set SNAPGUARD_RECORD=1 to re-record every snapshot.
package snaptest

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"os"
	"runtime"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/application/usecases"
	"github.com/felixgeelhaar/snapguard/internal/domain/services"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/config"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/storage"
)

// TB is the subset of testing.TB used for reporting.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
}

// RenderFunc produces the image under test.
type RenderFunc func() (image.Image, error)

// Modes is re-exported so callers can build overrides without importing
// internal packages.
type Modes = snapshot.Modes

// Result is the outcome of one assertion.
type Result = snapshot.Result

// Asserter resolves snapshots with a fixed store and mode set. It is safe
// for concurrent use by parallel tests as long as they use distinct names.
type Asserter struct {
	cfg          *config.Config
	modes        snapshot.Modes
	modesSet     bool
	store        ports.SnapshotStore
	artifactsDir string
	artifactsSet bool
	strict       *bool
	logger       *slog.Logger

	check *usecases.CheckSnapshotUseCase
}

// Option configures an Asserter.
type Option func(*Asserter)

// WithModes replaces the harness modes. Without it the config modes merged
// with ModesFromEnv are used.
func WithModes(m Modes) Option {
	return func(a *Asserter) {
		a.modes = m
		a.modesSet = true
	}
}

// WithStore sets the snapshot store.
func WithStore(store ports.SnapshotStore) Option {
	return func(a *Asserter) {
		a.store = store
	}
}

// WithConfig sets the configuration used for defaults.
func WithConfig(cfg *config.Config) Option {
	return func(a *Asserter) {
		if cfg != nil {
			a.cfg = cfg
		}
	}
}

// WithArtifactsDir sets where diff composites are written. Empty disables them.
func WithArtifactsDir(dir string) Option {
	return func(a *Asserter) {
		a.artifactsDir = dir
		a.artifactsSet = true
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Asserter) {
		a.logger = logger
	}
}

// WithStrictDecode makes undecodable baselines fail with a storage error.
func WithStrictDecode(strict bool) Option {
	return func(a *Asserter) {
		a.strict = &strict
	}
}

// New creates an Asserter.
func New(opts ...Option) *Asserter {
	a := &Asserter{}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.cfg == nil {
		a.cfg = discoverConfig(a.logger)
	}

	if !a.modesSet {
		a.modes = a.cfg.Modes.Merge(ModesFromEnv())
	}
	if !a.artifactsSet && a.cfg.Diff.Enabled {
		a.artifactsDir = a.cfg.Diff.ArtifactsDir
	}
	strict := a.cfg.Snapshots.StrictDecode
	if a.strict != nil {
		strict = *a.strict
	}

	fileStore := storage.NewFileStore(
		storage.WithDirName(a.cfg.Snapshots.Directory),
		storage.WithFailedSuffix(a.cfg.Snapshots.FailedSuffix),
		storage.WithLogger(a.logger),
	)
	if a.store == nil {
		a.store = fileStore
	}
	artifacts, ok := a.store.(ports.ArtifactWriter)
	if !ok {
		artifacts = fileStore
	}

	resolver := usecases.NewResolveSnapshotUseCase(a.store,
		usecases.WithResolveLogger(a.logger),
		usecases.WithStrictDecode(strict),
	)
	checkOpts := []usecases.CheckOption{usecases.WithCheckLogger(a.logger)}
	if a.artifactsDir != "" {
		diff := usecases.NewComposeDiffUseCase(a.store, artifacts,
			services.NewComposer(a.cfg.Diff.Gap, a.cfg.Diff.HeaderHeight))
		checkOpts = append(checkOpts, usecases.WithDiffArtifacts(diff, a.artifactsDir))
	}
	a.check = usecases.NewCheckSnapshotUseCase(resolver, checkOpts...)

	return a
}

// With returns a copy whose modes are the union of a's modes and m. The
// receiver is not changed.
func (a *Asserter) With(m Modes) *Asserter {
	cp := *a
	cp.modes = a.modes.Merge(m)
	return &cp
}

// Modes returns the modes applied by Assert.
func (a *Asserter) Modes() Modes {
	return a.modes
}

// Store returns the snapshot store.
func (a *Asserter) Store() ports.SnapshotStore {
	return a.store
}

// Assert renders an image and resolves it against the snapshot called name,
// stored next to the calling test file. Every outcome other than a match
// is reported through t.Errorf.
func (a *Asserter) Assert(t TB, name string, render RenderFunc) Result {
	t.Helper()
	return a.AssertAt(t, callerFile(), name, render)
}

// AssertImage is Assert for an already rendered image.
func (a *Asserter) AssertImage(t TB, name string, img image.Image) Result {
	t.Helper()
	return a.AssertAt(t, callerFile(), name, func() (image.Image, error) { return img, nil })
}

// AssertAt is Assert with an explicit test file.
func (a *Asserter) AssertAt(t TB, testFile, name string, render RenderFunc) Result {
	t.Helper()
	id := snapshot.NewIdentity(testFile, name)
	failed := snapshot.NewResult(snapshot.KindUnknown, id)

	var img image.Image
	var err error
	if render != nil {
		img, err = render()
	}
	if render == nil || err != nil || img == nil {
		reportRenderFailure(t, id, err)
		return failed
	}

	bitmap, err := snapshot.NewBitmap(img)
	if err != nil {
		reportRenderFailure(t, id, err)
		return failed
	}

	out, err := a.check.Execute(context.Background(), usecases.CheckSnapshotInput{
		Identity: id,
		Modes:    a.modes,
		Bitmap:   bitmap,
	})
	if err != nil {
		if errors.Is(err, snapshot.ErrRenderFailure) {
			reportRenderFailure(t, id, err)
		} else {
			t.Errorf("%s: failed to save snapshot: %v", id, err)
		}
		return failed
	}

	result := out.Result
	if !result.Passed() {
		t.Errorf("%s: %s", id, describe(result, out.DiffPath))
	}
	return result
}

// ModesFromEnv reads SNAPGUARD_RECORD, SNAPGUARD_DEBUG, SNAPGUARD_DELETE
// and SNAPGUARD_SAVE_FAILED.
func ModesFromEnv() Modes {
	return config.ModesFromEnv(os.LookupEnv)
}

func describe(r Result, diffPath string) string {
	msg := r.Message + "\n  snapshot: " + r.Path
	if r.FailedVariantSaved() {
		msg += "\n  failed variant: " + r.FailedPath
	}
	if diffPath != "" {
		msg += "\n  diff: " + diffPath
	}
	return msg
}

func reportRenderFailure(t TB, id snapshot.Identity, err error) {
	t.Helper()
	switch {
	case err == nil:
		t.Errorf("%s: %v", id, snapshot.ErrRenderFailure)
	case errors.Is(err, snapshot.ErrRenderFailure):
		t.Errorf("%s: %v", id, err)
	default:
		t.Errorf("%s: %v: %v", id, snapshot.ErrRenderFailure, err)
	}
}

// callerFile returns the source file of the function calling the exported
// Assert method.
func callerFile() string {
	_, file, _, ok := runtime.Caller(2)
	if !ok {
		return ""
	}
	return file
}

// discoverConfig loads the nearest snapguard config between the package
// directory and the module root. A broken file is logged and ignored so a
// typo does not fail every assertion.
func discoverConfig(logger *slog.Logger) *config.Config {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		logger.Warn("snaptest: using default config", "error", err)
		return config.DefaultConfig()
	}
	return cfg
}
