package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/galacticcic/galacticcic/internal/errors"
)

var (
	logsFollow bool
	logsLines  int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Tail the daemon's rolling log file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := logFilePath()
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return errors.WrapWithCode(err, errors.ErrDaemon, "no log file yet at "+path, "Start the daemon with 'galacticcic start' first.")
			}
			return errors.WrapWithCode(err, errors.ErrDaemon, "could not open "+path, "")
		}
		defer f.Close()

		offset, err := printTail(f, logsLines)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrDaemon, "could not read "+path, "")
		}
		if !logsFollow {
			return nil
		}

		return followLog(cmd.Context(), path, f, offset)
	},
}

// printTail prints at most n trailing lines of f and returns the byte
// offset of the end of the file, for followLog to pick up from.
func printTail(f *os.File, n int) (int64, error) {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return f.Seek(0, io.SeekCurrent)
}

// followLog watches path for writes via fsnotify and prints appended
// bytes as they land, until ctx is cancelled or SIGINT/SIGTERM arrives.
func followLog(ctx context.Context, path string, f *os.File, offset int64) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader := bufio.NewReader(f)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) {
				continue
			}
			if _, err := f.Seek(offset, io.SeekStart); err != nil {
				return err
			}
			for {
				line, err := reader.ReadString('\n')
				if line != "" {
					fmt.Print(line)
				}
				if err != nil {
					break
				}
			}
			offset, _ = f.Seek(0, io.SeekCurrent)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "keep the log open and print new lines as they're written")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 20, "number of trailing lines to print before following")
}
