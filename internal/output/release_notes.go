package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ReleaseNotesSuffix ends the name of every temporary release-notes file.
const ReleaseNotesSuffix = "-release-notes.txt"

// ReleaseNotesFile is where generate_release_notes.sh writes its output.
// Name is relative to Dir.
type ReleaseNotesFile struct {
	Dir       string
	Name      string
	Temporary bool
}

// ResolveReleaseNotesFile uses configured when set. Otherwise it picks a
// random name in dir that Cleanup removes again.
func ResolveReleaseNotesFile(dir, configured string) ReleaseNotesFile {
	if configured != "" {
		return ReleaseNotesFile{Dir: dir, Name: configured}
	}
	return ReleaseNotesFile{Dir: dir, Name: uuid.NewString() + ReleaseNotesSuffix, Temporary: true}
}

func (f ReleaseNotesFile) Path() string {
	return filepath.Join(f.Dir, filepath.FromSlash(f.Name))
}

// PrintTo copies the file contents to w followed by a newline. A file the
// script never created prints nothing.
func (f ReleaseNotesFile) PrintTo(w io.Writer) error {
	b, err := os.ReadFile(f.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read release notes: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(b)); err != nil {
		return fmt.Errorf("print release notes: %w", err)
	}
	return nil
}

// Cleanup removes the file if it is temporary.
func (f ReleaseNotesFile) Cleanup() error {
	if !f.Temporary {
		return nil
	}
	if err := os.Remove(f.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove release notes: %w", err)
	}
	return nil
}
