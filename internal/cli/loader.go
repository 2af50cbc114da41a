package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/statebind/internal/compiler"
	"github.com/roach88/statebind/internal/ir"
)

// LoadMode controls how errors are handled during loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the definitions and selectors loaded from a directory.
type LoadResult struct {
	Defs      map[string]ir.ActionDef // keyed by the label under `def`
	DefKeys   []string                // declaration order
	Selectors []ir.SelectorSpec
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred during loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadDefinitions builds the CUE package in dir and compiles every
// `def.<key>` into an ActionDef and the `selector` tree into selector
// specs. In LoadModeFailFast the first error ends the load; in
// LoadModeCollectAll every compile error is reported.
func LoadDefinitions(dir string, mode LoadMode) (*LoadResult, []error) {
	value, fileCount, loadErr := buildPackage(dir)
	if loadErr != nil {
		return nil, []error{loadErr}
	}

	result := &LoadResult{
		Defs:      make(map[string]ir.ActionDef),
		CUEValue:  value,
		FileCount: fileCount,
	}
	var errs []error
	// fail records err and reports whether loading should stop.
	fail := func(err error) bool {
		errs = append(errs, err)
		return mode == LoadModeFailFast
	}

	if defsVal := value.LookupPath(cue.ParsePath("def")); defsVal.Exists() {
		iter, err := defsVal.Fields()
		if err != nil {
			if fail(&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating definitions: %v", err)}) {
				return result, errs
			}
			iter = nil
		}
		for iter != nil && iter.Next() {
			key := iter.Label()
			def, err := compiler.CompileDefinition(iter.Value())
			if err != nil {
				if fail(convertCompileError(err, "def."+key)) {
					return result, errs
				}
				continue
			}
			result.Defs[key] = *def
			result.DefKeys = append(result.DefKeys, key)
		}
	}

	if selVal := value.LookupPath(cue.ParsePath("selector")); selVal.Exists() {
		specs, err := compiler.CompileSelectors(selVal)
		if err != nil {
			if fail(convertCompileError(err, "selector")) {
				return result, errs
			}
		} else {
			result.Selectors = specs
		}
	}

	if len(result.Defs) == 0 && len(result.Selectors) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no definitions or selectors found"})
	}
	return result, errs
}

// buildPackage checks dir, loads its CUE package and builds the value.
func buildPackage(dir string) (cue.Value, int, *LoadError) {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return cue.Value{}, 0, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("definitions directory not found: %s", dir)}
	case err != nil:
		return cue.Value{}, 0, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing definitions directory: %v", err)}
	case !info.IsDir():
		return cue.Value{}, 0, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	if err := instances[0].Err; err != nil {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", err)}
	}

	value := cuecontext.New().BuildInstance(instances[0])
	if err := value.Err(); err != nil {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	return value, len(cueFiles), nil
}

// FindCUEFiles returns every .cue file under dir.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: fmt.Sprintf("%s: %s", context, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// firstLoadError reduces a failed load to a code and message.
func firstLoadError(errs []error) (code, message string) {
	var loadErr *LoadError
	if errors.As(errs[0], &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, errs[0].Error()
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeJournal     = "E007" // Journal open/read/write error
	ErrCodeBadInput    = "E008" // Invalid state file, key or action arguments
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "purpose":
		return compiler.ErrDefPurposeEmpty
	case "action":
		return compiler.ErrDefNoActions
	case "type":
		return compiler.ErrInvalidFieldType
	default:
		if strings.HasPrefix(field, "selector.") {
			return compiler.ErrSelectorNoFields
		}
		return ErrCodeGeneric
	}
}
