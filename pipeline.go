package mkt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

func (e *Editor) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(file), Extension) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

// scanName returns the track name of file, its path relative to base
// without the extension
func scanName(base, file string) (string, error) {
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel))), nil
}

func (e *Editor) importWorker(ctx context.Context, base string, claimed *sync.Map, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			name, err := scanName(base, file)
			if err != nil {
				errc <- err
				return
			}

			if other, loaded := claimed.LoadOrStore(name, file); loaded {
				errc <- fmt.Errorf("%w: %q from %s and %s", ErrDuplicateName, name, other, file)
				return
			}

			b, err := os.ReadFile(file)
			if err != nil {
				errc <- err
				return
			}
			crc := checksum(b)

			existing, err := e.db.FindByCRC(crc)
			if err != nil {
				errc <- err
				return
			}
			if existing != "" {
				e.sugar.Debugw("Skipping unchanged file", "file", file, "name", existing, "crc", crc)
				continue
			}

			if err := e.importBytes(file, name, b, crc); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan imports every MAKE track file found under path using the given
// number of workers. Each track is named after its file path relative to
// path, without the extension. Files already imported with the same contents
// are skipped.
func (e *Editor) Scan(path string, workers int) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if workers < 1 {
		workers = 1
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := e.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	var claimed sync.Map

	for i := 0; i < workers; i++ {
		errc, err := e.importWorker(ctx, dir, &claimed, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}

// ExportAll writes every track in the library to dir using at most the
// given number of concurrent exports. Nothing is written if two tracks would
// export to the same file.
func (e *Editor) ExportAll(dir string, workers int) error {
	entries, err := e.db.List()
	if err != nil {
		return err
	}

	// Output names are compared without case for case-insensitive
	// filesystems
	files := make(map[string]string, len(entries))
	for _, entry := range entries {
		file := fileName(entry.Name)
		if other, ok := files[strings.ToLower(file)]; ok {
			return fmt.Errorf("%w: %q and %q both export to %s", ErrDuplicateName, other, entry.Name, file)
		}
		files[strings.ToLower(file)] = entry.Name
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)

	for _, entry := range entries {
		name := entry.Name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return e.Export(name, filepath.Join(dir, fileName(name)))
		})
	}

	return g.Wait()
}
