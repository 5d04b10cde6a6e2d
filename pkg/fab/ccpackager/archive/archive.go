/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package archive builds the gzipped tar code packages sent to peers on install.
package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/securekey/fabric-ccdeploy/pkg/common/logging"
)

var logger = logging.NewLogger("ccdeploy/ccpackager")

const metaInf = "META-INF/"

// Descriptor is a file to be packed and its name inside the archive
type Descriptor struct {
	Name string
	Path string
}

// Filter selects which files and directories are packed
type Filter struct {
	// Extensions of the files to keep. Empty keeps every file.
	Extensions []string
	// ExcludeDirs are directory names that are skipped wherever they appear
	ExcludeDirs []string
}

func (f Filter) keep(path string) bool {
	if len(f.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, v := range f.Extensions {
		if v == ext {
			return true
		}
	}
	return false
}

func (f Filter) excluded(name string) bool {
	for _, d := range f.ExcludeDirs {
		if d == name {
			return true
		}
	}
	return false
}

// FindSource walks root and returns a descriptor for each regular file kept
// by the filter. Files are named prefix + their path relative to base, using
// forward slashes. Files under a META-INF directory are named from META-INF/
// on, so they land at the root of the archive.
func FindSource(base, root, prefix string, filter Filter) ([]*Descriptor, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "chaincode source %s not accessible", root)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("chaincode source %s is not a directory", root)
	}

	var descriptors []*Descriptor
	err = filepath.Walk(root, func(path string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fileInfo.IsDir() {
			if path != root && filter.excluded(fileInfo.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !fileInfo.Mode().IsRegular() || !filter.keep(path) {
			return nil
		}

		relPath, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(relPath)
		if i := strings.Index(name, metaInf); i == 0 || (i > 0 && name[i-1] == '/') {
			name = name[i:]
		} else {
			name = prefix + name
		}

		descriptors = append(descriptors, &Descriptor{Name: name, Path: path})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk of %s failed", root)
	}

	if len(descriptors) == 0 {
		return nil, errors.Errorf("no chaincode source files found in %s", root)
	}

	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].Name < descriptors[j].Name })
	return descriptors, nil
}

// GenerateTarGz creates a .tar.gz stream from the provided descriptor entries.
// Timestamps are zeroed so the same sources always produce the same package.
func GenerateTarGz(descriptors []*Descriptor) ([]byte, error) {
	var codePackage bytes.Buffer
	gw := gzip.NewWriter(&codePackage)
	tw := tar.NewWriter(gw)

	for _, v := range descriptors {
		logger.Debugf("generateTarGz for %s", v.Path)
		if err := packEntry(tw, v); err != nil {
			if closeErr := closeStream(tw, gw); closeErr != nil {
				logger.Warnf("close of archive failed: %s", closeErr)
			}
			return nil, errors.Wrapf(err, "packEntry failed for %s", v.Path)
		}
	}

	if err := closeStream(tw, gw); err != nil {
		return nil, errors.Wrap(err, "closeStream failed")
	}
	return codePackage.Bytes(), nil
}

func closeStream(tw io.Closer, gw io.Closer) error {
	if err := tw.Close(); err != nil {
		return err
	}
	return gw.Close()
}

func packEntry(tw *tar.Writer, descriptor *Descriptor) error {
	file, err := os.Open(descriptor.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Warnf("error file close %s", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    descriptor.Name,
		Size:    stat.Size(),
		Mode:    int64(stat.Mode().Perm()),
		ModTime: time.Time{},
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	_, err = io.Copy(tw, file)
	return err
}
