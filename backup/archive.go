// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package backup

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// archive writes a gzipped tarball of the given paths, resolved relative to
// workingDir, to dest.
func archive(fs afero.Fs, workingDir string, paths []string, dest string) error {
	if err := fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	out, err := fs.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	for _, path := range paths {
		if err := addPath(fs, tw, workingDir, path); err != nil {
			return err
		}
	}

	return nil
}

func addPath(fs afero.Fs, tw *tar.Writer, workingDir string, relative string) error {
	absolute := filepath.Join(workingDir, relative)

	return afero.Walk(fs, absolute, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		name, err := filepath.Rel(workingDir, path)
		if err != nil {
			return err
		}
		name = filepath.ToSlash(name)

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = name
		if info.IsDir() {
			header.Name += "/"
		}

		if err := tw.WriteHeader(header); err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		f, err := fs.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(tw, f)
		return err
	})
}

// extract unpacks a gzipped tarball produced by archive back into
// workingDir, overwriting whatever the update left behind.
func extract(fs afero.Fs, src string, workingDir string) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		// Entry names must stay inside the working directory.
		target := filepath.Join(workingDir, filepath.FromSlash(header.Name))
		if target != filepath.Clean(workingDir) && !strings.HasPrefix(target, filepath.Clean(workingDir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes the working directory", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := fs.MkdirAll(target, os.FileMode(header.Mode)); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			f, err := fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		}
	}
}
