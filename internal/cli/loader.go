package cli

import (
	"fmt"

	"github.com/roach88/ndk/internal/script"
)

// LoadError represents an error that occurred while loading scripts.
type LoadError struct {
	Code    string
	Path    string
	Message string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadResult contains the scripts found under a set of paths.
// A file that fails to load does not stop the others: its error is kept
// in Errors and its scripts are absent.
type LoadResult struct {
	Scripts   []*script.Script
	Errors    []*LoadError
	FileCount int
}

// LoadScripts finds and loads every script file under paths.
// Returns a *LoadError (not a partial result) when the paths themselves
// cannot be scanned or contain no script files.
func LoadScripts(paths []string) (*LoadResult, error) {
	files, err := script.Find(paths)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: err.Error()}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no script files found in %v", paths)}
	}

	res := &LoadResult{FileCount: len(files)}
	for _, path := range files {
		scripts, err := script.Load(path)
		if err != nil {
			res.Errors = append(res.Errors, &LoadError{Code: ErrCodeLoadFailed, Path: path, Message: err.Error()})
			continue
		}
		res.Scripts = append(res.Scripts, scripts...)
	}
	return res, nil
}
