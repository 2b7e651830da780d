package pipeline

import (
	"os"

	"github.com/matzehuels/beamsplit/pkg/errors"
)

// ReadGridFile reads the grid text stored at path.
func ReadGridFile(path string) (string, error) {
	if err := errors.ValidatePath(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "grid file %s", path)
		}
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return string(data), nil
}

// FileOptions reads every path and returns one Options per file, copying
// the remaining fields from tmpl. It stops at the first unreadable file.
func FileOptions(paths []string, tmpl Options) ([]Options, error) {
	out := make([]Options, 0, len(paths))
	for _, p := range paths {
		text, err := ReadGridFile(p)
		if err != nil {
			return nil, err
		}
		opts := tmpl
		opts.Grid = text
		opts.Name = p
		out = append(out, opts)
	}
	return out, nil
}
