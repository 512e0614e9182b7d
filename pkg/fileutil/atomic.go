package fileutil

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/renameio"
	"github.com/spf13/afero"

	log "github.com/lucas-albers-lz4/upgrade-component/pkg/log"
)

// WriteFileAtomic replaces filename with data. On the OS filesystem the data is
// written to a temporary file in the same directory and renamed over the target,
// so readers see either the old or the new content. Symlinks are followed: the
// file they point to is replaced and the link is kept. Other filesystems (in-memory
// ones used by tests) get a plain write.
func WriteFileAtomic(fsys FS, filename string, data []byte, perm os.FileMode) error {
	if a, ok := fsys.(*AferoFS); ok {
		if _, isOS := a.GetUnderlyingFs().(*afero.OsFs); isOS {
			return writeFileRenameio(filename, data, perm)
		}
	}
	if err := fsys.WriteFile(filename, data, perm); err != nil {
		return err
	}
	return nil
}

func writeFileRenameio(filename string, data []byte, perm os.FileMode) error {
	resolved, err := filepath.EvalSymlinks(filename)
	switch {
	case err == nil:
		filename = resolved
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to resolve %s: %w", filename, err)
	}

	t, err := renameio.TempFile(filepath.Dir(filename), filename)
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", filename, err)
	}
	defer func() {
		_ = t.Cleanup()
	}()
	// Permissions go on before the data does.
	if err := t.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set permissions on temporary file for %s: %w", filename, err)
	}
	keepOwner(t, filename)
	w := bufio.NewWriter(t)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write temporary file for %s: %w", filename, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush temporary file for %s: %w", filename, err)
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	return nil
}

// keepOwner gives the temporary file the owner and group of the file it
// replaces. Only privileged processes may hand files to another owner, so a
// failure is logged and the write goes on.
func keepOwner(t *renameio.PendingFile, filename string) {
	info, err := os.Stat(filename)
	if err != nil {
		return
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	if err := t.Chown(int(st.Uid), int(st.Gid)); err != nil {
		log.Debug("Could not keep file owner", "file", filename, "uid", st.Uid, "gid", st.Gid, "error", err)
	}
}
