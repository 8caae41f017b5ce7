package fixers

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/debtidy/debtidy/internal/metrics"
	"github.com/debtidy/debtidy/internal/observability"
)

// Runner runs a selection of fixers against a tree. In dry-run mode the
// fixers operate on a scratch copy, so the report shows what would change
// without touching the tree.
type Runner struct {
	registry *Registry
	recorder metrics.Recorder
	dryRun   bool
}

// NewRunner creates a runner. A nil recorder disables metrics.
func NewRunner(registry *Registry, recorder metrics.Recorder, dryRun bool) *Runner {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Runner{registry: registry, recorder: recorder, dryRun: dryRun}
}

// AppliedFix records one fixer that changed the tree.
type AppliedFix struct {
	Fixer     string
	Summary   string
	Changed   []string
	FixedTags []string
}

// SkippedFix records one fixer that had nothing to do.
type SkippedFix struct {
	Fixer  string
	Reason string
}

// RunResult contains the results of one run across the selected fixers.
type RunResult struct {
	RunID   string
	Mode    string // "fix" or "lint"
	Applied []AppliedFix
	Skipped []SkippedFix
	Errors  []error
}

// HasErrors reports whether any fixer failed during the run.
func (rr *RunResult) HasErrors() bool {
	return len(rr.Errors) > 0
}

// ChangedFiles returns the union of changed paths across all applied
// fixers, in first-seen order.
func (rr *RunResult) ChangedFiles() []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range rr.Applied {
		for _, path := range a.Changed {
			if !seen[path] {
				seen[path] = true
				out = append(out, path)
			}
		}
	}
	return out
}

// Summary returns a human-readable report of the run.
func (rr *RunResult) Summary() string {
	var b strings.Builder
	for _, a := range rr.Applied {
		fmt.Fprintf(&b, "%s: %s\n", a.Fixer, a.Summary)
		for _, path := range a.Changed {
			fmt.Fprintf(&b, "  %s\n", path)
		}
	}
	if len(rr.Applied) == 0 {
		b.WriteString("Nothing to fix.\n")
	}
	if len(rr.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors encountered: %d\n", len(rr.Errors))
		for _, err := range rr.Errors {
			fmt.Fprintf(&b, "  %v\n", err)
		}
	}
	return b.String()
}

// Run applies the selected fixers to the tree in registry order. A fixer
// error is recorded and the run continues with the next fixer; only a
// selection error or an unusable dry-run copy aborts the run itself.
func (r *Runner) Run(ctx context.Context, tree *Tree, only, exclude []string) (*RunResult, error) {
	selected, err := r.registry.Select(only, exclude)
	if err != nil {
		return nil, err
	}

	mode := "fix"
	if r.dryRun {
		mode = "lint"
	}
	rr := &RunResult{RunID: uuid.NewString(), Mode: mode}
	ctx = observability.WithRunID(ctx, rr.RunID)
	ctx = observability.WithMode(ctx, mode)
	ctx = observability.WithTree(ctx, tree.Root())

	if r.dryRun {
		scratch, err := os.MkdirTemp("", "debtidy-lint-*")
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(scratch)
		if err := copyTree(tree.Root(), scratch); err != nil {
			return nil, fmt.Errorf("copy tree for dry run: %w", err)
		}
		tree = NewTree(scratch, tree.overrideLocations...)
	}

	start := time.Now()
	for _, f := range selected {
		if err := ctx.Err(); err != nil {
			return rr, err
		}
		fctx := observability.WithFixer(ctx, f.Name())
		res, err := f.Fix(fctx, tree)
		if err != nil {
			r.recorder.IncFixerFailed(f.Name())
			observability.ErrorContext(fctx, "Fixer failed", slog.Any("error", err))
			rr.Errors = append(rr.Errors, fmt.Errorf("%s: %w", f.Name(), err))
			continue
		}
		if !res.Applied() {
			rr.Skipped = append(rr.Skipped, SkippedFix{Fixer: f.Name(), Reason: "nothing to do"})
			continue
		}
		r.recorder.IncFixerApplied(f.Name())
		r.recorder.AddFilesChanged(len(res.Changed))
		observability.InfoContext(fctx, "Fixer applied",
			slog.Int("files", len(res.Changed)),
			slog.Any("tags", res.FixedTags))
		rr.Applied = append(rr.Applied, AppliedFix{
			Fixer:     f.Name(),
			Summary:   res.Summary,
			Changed:   res.Changed,
			FixedTags: res.FixedTags,
		})
	}
	r.recorder.ObserveRunDuration(mode, time.Since(start))
	r.recorder.IncRunOutcome(mode, !rr.HasErrors())
	return rr, nil
}

// copyTree copies src into dst, preserving file modes. VCS metadata is
// skipped; fixers never edit it and full histories can be large.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && (d.Name() == ".git" || d.Name() == ".bzr" || d.Name() == ".hg") {
			return fs.SkipDir
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return copyFile(path, target, info.Mode().Perm())
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
