package report

// #region imports
import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/uago3c/uago/internal/engine"
)

// #endregion

// #region artifact

// WriteArtifact saves the selected attempt's rendered bitmap as a PNG keyed
// by run id, so an external visualization collaborator can work from it
// without re-running the pipeline. Returns the written path, or "" when the
// run has no selected attempt.
func WriteArtifact(run engine.Run, dir string) (string, error) {
	sel := run.SelectedAttempt()
	if sel == nil || sel.Rendered == nil {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	path := filepath.Join(dir, run.ID+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()

	if err := sel.Rendered.EncodePNG(f); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", path, err)
	}
	return path, nil
}

// #endregion
