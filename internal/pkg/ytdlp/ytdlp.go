// Package ytdlp drives the yt-dlp executable.
package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/far4599/ytd-web/internal/pkg/log"
	"github.com/pkg/errors"
)

// Client is the part of yt-dlp the services depend on.
type Client interface {
	Info(ctx context.Context, url string) (*Info, error)
	Download(ctx context.Context, url, formatID, dir, filename string) error
}

// ExtractorError is an "ERROR: " line reported by yt-dlp.
type ExtractorError struct {
	Message string
}

func (e *ExtractorError) Error() string {
	return e.Message
}

type Runner struct {
	binary   string
	cacheDir string
	maxRetry uint
}

func NewRunner(binary, cacheDir string, maxRetry uint) *Runner {
	if maxRetry < 1 {
		maxRetry = 1
	}

	return &Runner{
		binary:   binary,
		cacheDir: cacheDir,
		maxRetry: maxRetry,
	}
}

func (r *Runner) Info(ctx context.Context, url string) (*Info, error) {
	out, err := r.runWithRetry(ctx, url, "-J", "--no-playlist", "--skip-download")
	if err != nil {
		return nil, err
	}

	return ParseInfo(out)
}

// Download writes the format to dir/filename. Existing files are overwritten.
func (r *Runner) Download(ctx context.Context, url, formatID, dir, filename string) error {
	_, err := r.runWithRetry(ctx, url,
		"-f", formatID,
		"-P", dir,
		// yt-dlp treats -o as an output template
		"-o", strings.ReplaceAll(filename, "%", "%%"),
		"--no-playlist",
		"--no-progress",
		"--force-overwrites",
	)

	return err
}

func (r *Runner) runWithRetry(ctx context.Context, url string, args ...string) (result []byte, err error) {
	err = retry.Do(
		func() error {
			res, errR := r.run(ctx, url, args...)
			if errR != nil {
				return errR
			}

			result = res

			return nil
		},
		retry.Context(ctx),
		retry.Attempts(r.maxRetry),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Logger.Debugw("yt-dlp attempt failed", "attempt", n+1, "error", err)
		}),
	)

	return
}

func (r *Runner) run(ctx context.Context, url string, args ...string) ([]byte, error) {
	defaultArgs := []string{
		"--ignore-config",
		"--cache-dir", r.cacheDir,
		// provide URL via stdin for security, yt-dlp has some run command args
		"--batch-file", "-",
	}

	cmd := exec.CommandContext(ctx, r.binary, append(defaultArgs, args...)...)

	stdoutBuf := &bytes.Buffer{}
	stderrBuf := &bytes.Buffer{}

	cmd.Stdin = bytes.NewBufferString(url + "\n")
	cmd.Stdout = stdoutBuf
	cmd.Stderr = stderrBuf

	cmdErr := cmd.Run()

	if extErr := scanErrors(stderrBuf); extErr != nil {
		return nil, extErr
	}
	if cmdErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrapf(cmdErr, "failed to run %s", r.binary)
	}

	return stdoutBuf.Bytes(), nil
}

// scanErrors returns the first "ERROR: " line of the yt-dlp stderr output.
func scanErrors(stderr *bytes.Buffer) error {
	const errorPrefix = "ERROR: "

	stderrLineScanner := bufio.NewScanner(stderr)
	for stderrLineScanner.Scan() {
		line := stderrLineScanner.Text()
		if strings.HasPrefix(line, errorPrefix) {
			log.Logger.Debugw("yt-dlp returned error", "error", line[len(errorPrefix):])
			return &ExtractorError{Message: line[len(errorPrefix):]}
		}
	}

	return nil
}
