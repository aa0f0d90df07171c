// scanner/gitignore.go
package scanner

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// isIgnored checks path against every .gitignore between rootDir and the
// path's parent directory. Each .gitignore is matched with the path relative
// to the directory that holds it.
func (s *Scanner) isIgnored(path string, rootDir string, isDir bool) bool {
	if !s.Options.UseGitignore {
		return false
	}

	rel, err := filepath.Rel(rootDir, path)
	if err != nil || rel == "." {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")

	dir := rootDir
	for i := range parts {
		if ignorer := s.ignorerFor(dir); ignorer != nil {
			sub := strings.Join(parts[i:], "/")
			if isDir {
				sub += "/"
			}
			if ignorer.MatchesPath(sub) {
				return true
			}
		}
		dir = filepath.Join(dir, parts[i])
	}
	return false
}

// ignorerFor returns the compiled .gitignore of dir, or nil when there is none.
func (s *Scanner) ignorerFor(dir string) gitignore.IgnoreParser {
	s.cacheMutex.Lock()
	ignorer, found := s.gitIgnoreCache[dir]
	s.cacheMutex.Unlock()
	if found {
		return ignorer
	}

	gitIgnoreFilePath := filepath.Join(dir, ".gitignore")
	compiled, err := gitignore.CompileIgnoreFile(gitIgnoreFilePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warnf("Error compiling .gitignore file %s: %v. It will be skipped.", gitIgnoreFilePath, err)
		}
	}
	if compiled != nil {
		ignorer = compiled
	}

	s.cacheMutex.Lock()
	s.gitIgnoreCache[dir] = ignorer
	s.cacheMutex.Unlock()
	return ignorer
}
