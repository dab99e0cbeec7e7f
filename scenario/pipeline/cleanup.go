package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
)

// removeScratch deletes the scenario-scoped generated artifacts, exactly
// the scratch set of the path layout. Paths a failed or skipped stage
// never produced are silently passed over; shared templates and archived
// copies are untouched.
func (p *Pipeline) removeScratch() error {
	for _, path := range p.paths.ScratchPaths() {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("inspecting scratch path %s: %w", path, err)
		}
		if info.IsDir() {
			err = os.RemoveAll(path)
		} else {
			err = os.Remove(path)
		}
		if err != nil {
			return fmt.Errorf("removing scratch path %s: %w", path, err)
		}
		logrus.Debugf("[%s] removed scratch path %s", p.spec.ID, path)
	}
	return nil
}
