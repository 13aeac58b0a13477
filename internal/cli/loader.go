package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/epsql/internal/queryir"
)

// LoadError represents an error that occurred while loading a query file.
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

// LoadQueries reads a query file and converts it to queries. The format
// follows the extension: .yaml/.yml or .cue. Both decode into
// queryir.QueryFile:
//
//	queries:
//	  - environment: RUN PERIOD 1
//	    frequency: Hourly
//	    name_pattern: "Zone .* Temperature"
//	    key_values: [ZONE ONE]
func LoadQueries(path string) ([]queryir.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeQueryFile, Message: fmt.Sprintf("reading query file: %v", err)}
	}

	var file queryir.QueryFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, &file)
	case ".cue":
		err = decodeCUE(path, data, &file)
	default:
		return nil, &LoadError{Code: ErrCodeQueryFile, Message: fmt.Sprintf("unsupported query file type %q (want .yaml, .yml or .cue)", filepath.Ext(path))}
	}
	if err != nil {
		return nil, err
	}

	if len(file.Queries) == 0 {
		return nil, &LoadError{Code: ErrCodeQueryFile, Message: fmt.Sprintf("no queries in %s", path)}
	}
	queries, err := file.ToQueries()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeQueryFile, Message: err.Error()}
	}
	return queries, nil
}

func decodeYAML(data []byte, out *queryir.QueryFile) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &LoadError{Code: ErrCodeQueryFile, Message: fmt.Sprintf("parsing YAML: %v", err)}
	}
	return nil
}

func decodeCUE(path string, data []byte, out *queryir.QueryFile) error {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return cueLoadError("building CUE value", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return cueLoadError("validating CUE value", err)
	}
	if err := value.Decode(out); err != nil {
		return cueLoadError("decoding queries", err)
	}
	return nil
}

// cueLoadError converts a CUE error to a LoadError carrying its first
// position.
func cueLoadError(context string, err error) *LoadError {
	loadErr := &LoadError{
		Code:    ErrCodeQueryFile,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
	if positions := cueerrors.Positions(err); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
