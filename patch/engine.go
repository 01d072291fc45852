// Package patch applies a PatchConfig to an APK decoded by apktool.
package patch

import (
	"context"

	"github.com/frantjc/apkpatch"
	"github.com/frantjc/apkpatch/android"
)

const (
	// DefaultPatchesDir is where overlay patches are looked up
	// when no other directory is given.
	DefaultPatchesDir = "patches"
)

var (
	// DefaultIconNames are the adaptive icon descriptors edited by apply-icon.
	DefaultIconNames = []string{"ic_launcher_twitter", "ic_launcher_twitter_round"}
)

// Engine applies the operations requested by a PatchConfig
// to a decoded APK in place.
type Engine struct {
	Tree   android.Tree
	Config *apkpatch.PatchConfig

	patchesDir string
	iconNames  []string
	report     *Report
}

type Opt func(*Engine)

// WithPatchesDir sets the directory holding one subdirectory per overlay patch.
func WithPatchesDir(dir string) Opt {
	return func(e *Engine) {
		e.patchesDir = dir
	}
}

// WithIconNames sets the adaptive icon descriptors, by name without
// extension, that apply-icon edits.
func WithIconNames(names ...string) Opt {
	return func(e *Engine) {
		e.iconNames = names
	}
}

func New(dir string, cfg *apkpatch.PatchConfig, opts ...Opt) *Engine {
	if cfg == nil {
		cfg = &apkpatch.PatchConfig{}
	}

	e := &Engine{
		Tree:       android.Tree(dir),
		Config:     cfg,
		patchesDir: DefaultPatchesDir,
		iconNames:  DefaultIconNames,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Report summarizes what the last call to Run did.
type Report struct {
	Applied []string
	Skipped []string
	Patches []string
}

// Operation is one step of Engine.Run.
type Operation struct {
	Name    string
	Enabled func(*apkpatch.PatchConfig) bool
	Apply   func(context.Context, *Engine) error
}

// Operations are run in this order. Translations go first so later steps
// never touch files that are about to be deleted, and the icon goes last.
var Operations = []Operation{
	{
		Name: "remove-translations",
		Enabled: func(cfg *apkpatch.PatchConfig) bool {
			return cfg.RemoveTranslations != nil && *cfg.RemoveTranslations
		},
		Apply: removeTranslations,
	},
	{
		Name: "rename-package",
		Enabled: func(cfg *apkpatch.PatchConfig) bool {
			return cfg.PackageName != nil
		},
		Apply: renamePackage,
	},
	{
		Name: "rewrite-version",
		Enabled: func(cfg *apkpatch.PatchConfig) bool {
			return cfg.AppVersion != nil
		},
		Apply: rewriteVersion,
	},
	{
		Name: "rename-app",
		Enabled: func(cfg *apkpatch.PatchConfig) bool {
			return cfg.AppName != nil
		},
		Apply: renameApp,
	},
	{
		Name: "apply-patches",
		Enabled: func(cfg *apkpatch.PatchConfig) bool {
			return cfg.Patches != nil
		},
		Apply: applyPatches,
	},
	{
		Name: "apply-icon",
		Enabled: func(cfg *apkpatch.PatchConfig) bool {
			return cfg.AppIcon != nil
		},
		Apply: applyIcon,
	},
}

// Run applies every enabled operation in order, stopping at the first
// error. There is no rollback: when Run fails, the operations before the
// failing one have already been written to the tree.
func (e *Engine) Run(ctx context.Context) error {
	var (
		log = apkpatch.LoggerFrom(ctx).WithValues("dir", e.Tree.String())
	)

	e.report = &Report{}

	for _, op := range Operations {
		if !op.Enabled(e.Config) {
			log.V(1).Info("skipping " + op.Name)
			e.report.Skipped = append(e.report.Skipped, op.Name)
			continue
		}

		log.Info("running " + op.Name)
		if err := op.Apply(apkpatch.WithLogger(ctx, log.WithName(op.Name)), e); err != nil {
			return newOperationError(op.Name, err)
		}

		e.report.Applied = append(e.report.Applied, op.Name)
	}

	return nil
}

// Report returns the summary of the last call to Run,
// including a partial one if Run failed.
func (e *Engine) Report() *Report {
	if e.report == nil {
		return &Report{}
	}

	return e.report
}
