// scanner/scanner.go
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/alexferrari88/pymodernize/utils"
	gitignore "github.com/sabhiram/go-gitignore"
)

var defaultNumWorkers = runtime.NumCPU()

// Scanner orchestrates the scanning process.
type Scanner struct {
	Options        ScanOptions
	log            Logger
	exclude        map[string]bool
	gitIgnoreCache map[string]gitignore.IgnoreParser // Key: directory containing .gitignore
	cacheMutex     sync.Mutex
}

// New creates a new Scanner instance, filling in defaults for unset options.
func New(options ScanOptions) (*Scanner, error) {
	options.Extension = utils.NormalizeExtension(options.Extension)
	if options.Extension == "" {
		options.Extension = DefaultExtension
	}
	if options.Language == "" {
		options.Language = DefaultLanguage
	}
	if options.Dialect == "" {
		options.Dialect = DefaultDialect
	}
	if options.Workers <= 0 {
		options.Workers = defaultNumWorkers
	}
	if options.Patterns == nil {
		options.Patterns = DefaultPatterns()
	}
	if len(options.Patterns) == 0 {
		return nil, errors.New("pattern table is empty")
	}
	if options.Logger == nil {
		options.Logger = nopLogger{}
	}

	s := &Scanner{
		Options:        options,
		log:            options.Logger,
		exclude:        make(map[string]bool, len(options.Exclude)),
		gitIgnoreCache: make(map[string]gitignore.IgnoreParser),
	}
	for _, name := range options.Exclude {
		s.exclude[name] = true
	}
	return s, nil
}

// Discover returns every file under rootDir whose name ends with the configured
// extension. filepath.WalkDir visits entries in lexical order, so the result is
// stable for an unchanged tree. A symlinked root is resolved before walking;
// returned paths keep the rootDir prefix as given.
func (s *Scanner) Discover(rootDir string) ([]string, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("accessing root %s: %w", rootDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", rootDir)
	}
	walkRoot, err := filepath.EvalSymlinks(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", rootDir, err)
	}

	var files []string
	walkErr := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot {
				return err
			}
			s.log.Warnf("Error accessing path %q: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == walkRoot {
				return nil
			}
			if s.exclude[d.Name()] {
				s.log.Debugf("Skipping excluded directory: %s", path)
				return filepath.SkipDir
			}
			if s.isIgnored(path, walkRoot, true) {
				s.log.Debugf("Skipping path due to .gitignore: %s", path)
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), s.Options.Extension) {
			return nil
		}
		if s.isIgnored(path, walkRoot, false) {
			s.log.Debugf("Skipping path due to .gitignore: %s", path)
			return nil
		}
		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.Join(rootDir, rel))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", rootDir, walkErr)
	}
	return files, nil
}

type fileOutcome struct {
	matches []Match
	err     error
}

// ScanDirectory discovers and scans every candidate file under rootDir.
// Unreadable files are recorded in ScanResult.Errors and the scan continues.
func (s *Scanner) ScanDirectory(ctx context.Context, rootDir string) (*ScanResult, error) {
	files, err := s.Discover(rootDir)
	if err != nil {
		return nil, err
	}
	s.log.Debugf("Discovered %d %s files under %s", len(files), s.Options.Language, rootDir)

	outcomes := make([]fileOutcome, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup

	numWorkers := s.Options.Workers
	if numWorkers > len(files) {
		numWorkers = len(files)
	}
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				matches, err := s.scanFile(ctx, files[idx])
				if err != nil {
					s.log.Debugf("Worker %d: error processing file %q: %v", workerID, files[idx], err)
				}
				outcomes[idx] = fileOutcome{matches: matches, err: err}
			}
		}(i)
	}

feed:
	for idx := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &ScanResult{
		Root:         rootDir,
		Language:     s.Options.Language,
		Dialect:      s.Options.Dialect,
		FilesScanned: len(files),
		Files:        []FileReport{},
	}
	for idx, out := range outcomes {
		if out.err != nil {
			s.log.Warnf("Skipping %s: %v", files[idx], out.err)
			result.Errors = append(result.Errors, FileError{Path: files[idx], Error: out.err.Error()})
			continue
		}
		if len(out.matches) > 0 {
			result.Files = append(result.Files, FileReport{Path: files[idx], Matches: out.matches})
		}
	}
	return result, nil
}

// ScanFile reads path and matches every line against the pattern table.
// Read and decoding failures are returned as *FileReadError.
func (s *Scanner) ScanFile(path string) ([]Match, error) {
	return s.scanFile(context.Background(), path)
}

func (s *Scanner) scanFile(ctx context.Context, path string) ([]Match, error) {
	contentBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	if !utf8.Valid(contentBytes) {
		return nil, &FileReadError{Path: path, Err: ErrInvalidEncoding}
	}

	content := utils.NormalizeNewlines(string(contentBytes))
	matches := s.ScanContent(content)

	if s.Options.Annotate && len(matches) > 0 {
		if err := annotate(ctx, []byte(content), matches); err != nil {
			s.log.Warnf("Could not annotate %s: %v", path, err)
		}
	}
	return matches, nil
}

// ScanContent matches every line of content against the pattern table.
// "\r\n" and lone "\r" both end a line.
func (s *Scanner) ScanContent(content string) []Match {
	var matches []Match
	for i, line := range utils.SplitLines(content) {
		matches = append(matches, s.Options.Patterns.MatchLine(i+1, line)...)
	}
	return matches
}
