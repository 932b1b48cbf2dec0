package extract

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Format identifies an archive container
type Format string

const (
	FormatZip   Format = "zip"
	FormatTar   Format = "tar"
	FormatTarGz Format = "tar.gz"
)

// Permissions used when an archive does not carry usable modes
const (
	DefaultDirMode  os.FileMode = 0755
	DefaultFileMode os.FileMode = 0644
)

var (
	zipMagic  = []byte("PK\x03\x04")
	gzipMagic = []byte{0x1f, 0x8b}
)

// DetectFormat inspects the first bytes of the file at path
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, len(zipMagic))
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		if err == io.EOF {
			return "", errors.Errorf("archive %s is empty", path)
		}
		return "", err
	}
	head = head[:n]

	switch {
	case bytes.HasPrefix(head, zipMagic):
		return FormatZip, nil
	case bytes.HasPrefix(head, gzipMagic):
		return FormatTarGz, nil
	default:
		return FormatTar, nil
	}
}

// Extract unpacks the archive at archivePath into targetDir and returns the
// number of regular files written
func Extract(archivePath, targetDir string, logger logrus.FieldLogger) (int, error) {
	format, err := DetectFormat(archivePath)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read archive")
	}

	if err := os.MkdirAll(targetDir, DefaultDirMode); err != nil {
		return 0, errors.Wrapf(err, "failed to create %s", targetDir)
	}

	switch format {
	case FormatZip:
		return extractZip(archivePath, targetDir, logger)
	case FormatTarGz:
		return extractTar(archivePath, targetDir, true, logger)
	default:
		return extractTar(archivePath, targetDir, false, logger)
	}
}

func extractZip(archivePath, targetDir string, logger logrus.FieldLogger) (int, error) {
	// entry names are clamped by SecureJoin below, so insecure names are fine
	reader, err := zip.OpenReader(archivePath)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return 0, errors.Wrap(err, "failed to open zip archive")
	}
	defer reader.Close()

	files := 0
	for _, entry := range reader.File {
		path, err := securejoin.SecureJoin(targetDir, entry.Name)
		if err != nil {
			return files, errors.Wrapf(err, "invalid entry %s", entry.Name)
		}

		mode := entry.Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(path, DefaultDirMode); err != nil {
				return files, err
			}
		case mode.IsRegular():
			rc, err := entry.Open()
			if err != nil {
				return files, errors.Wrapf(err, "failed to read entry %s", entry.Name)
			}
			err = writeFile(path, rc, mode.Perm())
			rc.Close()
			if err != nil {
				return files, err
			}
			files++
		default:
			logger.WithField("entry", entry.Name).Debug("skipping non-regular zip entry")
		}
	}
	return files, nil
}

func extractTar(archivePath, targetDir string, gzipped bool, logger logrus.FieldLogger) (int, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var stream io.Reader = bufio.NewReader(f)
	if gzipped {
		uncompressedStream, err := gzip.NewReader(stream)
		if err != nil {
			return 0, errors.Wrap(err, "failed to open gzip stream")
		}
		defer uncompressedStream.Close()
		stream = uncompressedStream
	}

	tarReader := tar.NewReader(stream)
	files := 0
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil && !errors.Is(err, tar.ErrInsecurePath) {
			return files, errors.Wrap(err, "failed to read tar entry")
		}

		path, err := securejoin.SecureJoin(targetDir, header.Name)
		if err != nil {
			return files, errors.Wrapf(err, "invalid entry %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, DefaultDirMode); err != nil {
				return files, err
			}
		case tar.TypeReg:
			if err := writeFile(path, tarReader, os.FileMode(header.Mode).Perm()); err != nil {
				return files, err
			}
			files++
		case tar.TypeXGlobalHeader:
			// pax metadata, nothing to write
		default:
			logger.WithField("entry", header.Name).Debug("skipping non-regular tar entry")
		}
	}
	return files, nil
}

// writeFile creates path and its parent directories and copies src into it
func writeFile(path string, src io.Reader, mode os.FileMode) error {
	if mode == 0 {
		mode = DefaultFileMode
	}
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirMode); err != nil {
		return err
	}

	outFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(outFile, src); err != nil {
		outFile.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return outFile.Close()
}
