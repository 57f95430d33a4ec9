package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// CopyResponses copies the shared response fixtures into <workspace>/responses.
func CopyResponses(t *testing.T, workspaceRoot string) {
	t.Helper()
	CopyDir(t, filepath.Join(RepoRoot(t), "integration", "testdata", "responses"), filepath.Join(workspaceRoot, "responses"))
}

// CopyDir copies a fixture directory into a destination path.
func CopyDir(t *testing.T, src, dst string) {
	t.Helper()
	if err := copyDir(src, dst); err != nil {
		t.Fatalf("copy dir %s to %s: %v", src, dst, err)
	}
}

func copyDir(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("source is not a directory")
	}
	if err := os.MkdirAll(dst, info.Mode()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.Type()&os.ModeSymlink != 0 {
			return fmt.Errorf("symlink not supported: %s", srcPath)
		}

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(srcPath)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dstPath, data, info.Mode()); err != nil {
			return err
		}
	}
	return nil
}
