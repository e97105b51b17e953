package static

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// CopyAll copies the asset tree under srcDir into destDir, keeping file
// permissions. It returns the number of files copied.
func CopyAll(srcDir, destDir string, log zerolog.Logger) (int, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create destination directory %s: %w", destDir, err)
	}

	copied := 0
	err := filepath.WalkDir(srcDir, func(srcPath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(srcDir, srcPath)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", srcPath, err)
		}
		destPath := filepath.Join(destDir, relPath)

		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("failed to get info for directory %s: %w", srcPath, err)
			}
			if err := os.MkdirAll(destPath, info.Mode().Perm()|0700); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", destPath, err)
			}
			return nil
		}

		if err := copyFile(srcPath, destPath, log); err != nil {
			return fmt.Errorf("failed to copy file from %s to %s: %w", srcPath, destPath, err)
		}
		copied++
		return nil
	})
	return copied, err
}

func copyFile(src, dest string, log zerolog.Logger) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory for destination file %s: %w", dest, err)
	}

	destination, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return err
	}

	// A chmod failure is not worth failing the whole copy for.
	if err := os.Chmod(dest, info.Mode().Perm()); err != nil {
		log.Warn().Err(err).Str("file", dest).Msg("failed to set permissions")
	}
	log.Debug().Str("from", src).Str("to", dest).Msg("copied static asset")
	return nil
}
