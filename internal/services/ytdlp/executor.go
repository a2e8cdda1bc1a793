package ytdlp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// maxLineBytes bounds a single output line. yt-dlp prints the whole info JSON
// on one line, which routinely exceeds bufio's 64 KiB default.
const maxLineBytes = 64 << 20

// Executor abstracts command execution for testability. Output is delivered
// line by line; either callback may be nil.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", binary, err)
	}

	var wg sync.WaitGroup
	scanErrs := make([]error, 2)
	for i, stream := range []struct {
		r       io.Reader
		forward func(string)
	}{{stdout, onStdout}, {stderr, onStderr}} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scanErrs[i] = streamLines(stream.r, stream.forward)
		}()
	}
	wg.Wait()

	waitErr := cmd.Wait()
	if err := errors.Join(scanErrs...); err != nil {
		return fmt.Errorf("scan output: %w", err)
	}
	if waitErr != nil {
		return fmt.Errorf("wait command: %w", waitErr)
	}
	return nil
}

// streamLines forwards each line of r. After a scan error the rest of r is
// drained so the child never blocks on a full pipe.
func streamLines(r io.Reader, forward func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if forward != nil {
			forward(scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}
