package paramfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mavkit/paramvault/pkg/collector"
	"github.com/mavkit/paramvault/pkg/errors"
)

// Write renders the set and persists it to path atomically: the content
// is written to a temporary file in the destination directory and then
// renamed into place, so a failure mid-write never leaves a partial file
// at path.
func Write(path string, set collector.ParameterSet, meta Metadata) error {
	content := Render(set, meta)

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWrite,
			fmt.Sprintf("failed to create temporary file in %s", dir), err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeFileWrite,
			fmt.Sprintf("failed to write %s", path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeFileWrite,
			fmt.Sprintf("failed to close %s", tmpName), err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeFileWrite,
			fmt.Sprintf("failed to set permissions on %s", tmpName), err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeFileWrite,
			fmt.Sprintf("failed to move parameter file into place at %s", path), err)
	}

	return nil
}
