package squarer

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/dixieflatline76/Squarify/config"
	"github.com/dixieflatline76/Squarify/util/log"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // registers webp for image.DecodeConfig
)

// FileManager handles all file system operations for a batch.
// It knows which numbered folders to visit and which files inside them qualify.
type FileManager struct {
	rootDir string
	folders []string
	ext     string
}

// NewFileManager creates a FileManager for the configured root and folder range.
func NewFileManager(cfg *config.Config) *FileManager {
	return &FileManager{
		rootDir: cfg.Root,
		folders: cfg.FolderNames(),
		ext:     strings.ToLower(cfg.Extension),
	}
}

// Root returns the batch root directory.
func (fm *FileManager) Root() string {
	return fm.rootDir
}

// FolderSet returns the paths of the candidate folders that exist and are
// directories, in processing order. Anything else is skipped silently.
func (fm *FileManager) FolderSet() []string {
	var dirs []string
	for _, name := range fm.folders {
		dir := filepath.Join(fm.rootDir, name)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			log.Debugf("FileManager: skipping %s", dir)
			continue
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

// IsEligible reports whether a file name carries the target extension, ignoring case.
func (fm *FileManager) IsEligible(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), fm.ext)
}

// Eligible lists the eligible files directly inside dir, sorted by name.
func (fm *FileManager) Eligible(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !fm.IsEligible(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// Scan walks the folder set and returns every eligible file along with the
// number of folders visited.
func (fm *FileManager) Scan() ([]string, int, error) {
	dirs := fm.FolderSet()
	var files []string
	for _, dir := range dirs {
		found, err := fm.Eligible(dir)
		if err != nil {
			return nil, 0, err
		}
		log.Debugf("FileManager: %d eligible files in %s", len(found), dir)
		files = append(files, found...)
	}
	return files, len(dirs), nil
}

// ReplaceFile overwrites path with data. The data goes to a temporary file in
// the same directory first and is renamed over the original, so readers never
// see a half-written image. The original file mode is kept.
func (fm *FileManager) ReplaceFile(path string, data []byte) (err error) {
	// Symlinks are written through so the link itself survives.
	path, err = filepath.EvalSymlinks(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	dir, name := filepath.Split(path)
	tmpPath := filepath.Join(dir, "."+name+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// GetDimensions returns the width and height of an image file on disk.
func (fm *FileManager) GetDimensions(path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	img, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w: %w", path, ErrDecode, err)
	}
	return img.Width, img.Height, nil
}
