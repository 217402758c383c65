// Package writer materializes a generation manifest on disk as a skill
// package of stub files.
package writer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillgen/pkg/logger"
	"github.com/jingkaihe/skillgen/pkg/pathguard"
	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

const (
	defaultAttempts = 3
	defaultDelay    = 50 * time.Millisecond
	dirMode         = 0o755
	fileMode        = 0o644
)

// Writer writes manifests to the filesystem.
type Writer struct {
	attempts  uint
	delay     time.Duration
	writeFile func(name string, data []byte, perm os.FileMode) error
}

// Option configures a Writer.
type Option func(*Writer)

// WithRetry sets how many times a failing file write is attempted and the
// initial delay between attempts.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(w *Writer) {
		w.attempts = attempts
		w.delay = delay
	}
}

// New creates a Writer.
func New(opts ...Option) *Writer {
	w := &Writer{
		attempts:  defaultAttempts,
		delay:     defaultDelay,
		writeFile: os.WriteFile,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Result describes a written skill package.
type Result struct {
	SkillDir string   `json:"skill_dir" yaml:"skill_dir"`
	Files    []string `json:"files" yaml:"files"`
	Bytes    int      `json:"bytes" yaml:"bytes"`
}

// Write renders every artifact of m under its output directory. The output
// directory is checked again after resolving symlinks. Writing fails if the
// skill directory already exists, and a partially written skill directory is
// removed on failure.
func (w *Writer) Write(ctx context.Context, m *skill.Manifest) (*Result, error) {
	root, err := pathguard.Resolve(m.OutputDir)
	if err != nil {
		return nil, err
	}

	skillDir := filepath.Join(root, filepath.FromSlash(skill.SkillDir(m.SkillDefinition.Name)))
	if _, err := os.Lstat(skillDir); err == nil {
		return nil, errors.Errorf("skill directory %s already exists", skillDir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, "failed to check %s", skillDir)
	}

	log := logger.G(logger.WithRequest(ctx, m.SkillDefinition.Name)).WithField("dir", skillDir)
	result := &Result{SkillDir: skillDir}

	for _, a := range m.Artifacts {
		target := filepath.Join(root, filepath.FromSlash(a.Path))
		if !within(skillDir, target) {
			w.cleanup(ctx, skillDir)
			return nil, skill.NewUnsafePathError(a.Path, "artifact escapes the skill directory")
		}

		content, err := Render(m, a)
		if err != nil {
			w.cleanup(ctx, skillDir)
			return nil, err
		}

		if err := w.writeWithRetry(ctx, target, content); err != nil {
			w.cleanup(ctx, skillDir)
			return nil, errors.Wrapf(err, "failed to write %s", a.Path)
		}

		result.Files = append(result.Files, target)
		result.Bytes += len(content)
		log.WithField("file", a.Path).Debug("artifact written")
	}

	log.WithField("files", len(result.Files)).Info("skill package written")
	return result, nil
}

func (w *Writer) writeWithRetry(ctx context.Context, target string, content []byte) error {
	return retry.Do(
		func() error {
			if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
				return err
			}
			return w.writeFile(target, content, fileMode)
		},
		retry.RetryIf(isTransient),
		retry.Attempts(w.attempts),
		retry.Delay(w.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).WithField("attempt", n+1).WithField("file", target).Warn("retrying artifact write")
		}),
	)
}

var transientErrnos = []syscall.Errno{syscall.EAGAIN, syscall.EINTR, syscall.EBUSY}

// isTransient reports whether a write error may go away on retry. Only
// interrupted, busy and would-block errors and timeouts qualify.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}

func (w *Writer) cleanup(ctx context.Context, skillDir string) {
	if err := os.RemoveAll(skillDir); err != nil {
		logger.G(ctx).WithError(err).WithField("dir", skillDir).Error("failed to remove partially written skill")
	}
}

func within(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
