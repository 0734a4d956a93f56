// Package archive builds Walk abstraction on top of "archive/zip" for
// stylesheets packed in zip and EPUB containers.
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// WalkFunc is the type of the function called for each stylesheet in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk, the file argument is the zip.File structure of the stylesheet. If an
// error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk walks all stylesheets in the archive which are located under prefix,
// calling walkFn for each of them in natural name order. Entries with path
// traversal components ("..") or absolute paths make Walk fail to prevent
// Zip Slip attacks.
func Walk(archive, prefix string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	files, err := Stylesheets(&r.Reader, prefix)
	if err != nil {
		return fmt.Errorf("%s: %w", archive, err)
	}
	for _, f := range files {
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// Stylesheets returns stylesheet entries of r located under prefix sorted in
// natural order. For EPUB containers stylesheets are the package manifest
// items of text/css media type, for any other archive those are entries with
// ".css" extension.
func Stylesheets(r *zip.Reader, prefix string) ([]*zip.File, error) {
	byName := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return nil, fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() {
			byName[name] = f
		}
	}

	names, isEPUB, err := manifestStylesheets(byName)
	if err != nil {
		return nil, err
	}
	if !isEPUB {
		for name := range byName {
			if strings.EqualFold(path.Ext(name), ".css") {
				names = append(names, name)
			}
		}
	}

	filtered := names[:0]
	for _, name := range names {
		if _, ok := byName[name]; ok && strings.HasPrefix(name, prefix) {
			filtered = append(filtered, name)
		}
	}
	sort.Sort(natural.StringSlice(filtered))

	files := make([]*zip.File, 0, len(filtered))
	for _, name := range filtered {
		files = append(files, byName[name])
	}
	return files, nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
