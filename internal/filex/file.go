// Package filex holds small filesystem helpers used when preparing the local
// store and importing files into it.
package filex

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrTooLarge is returned by ReadImage for files above the size limit.
var ErrTooLarge = errors.New("file too large")

// ErrNotImage is returned by ReadImage when the content is not an image.
var ErrNotImage = errors.New("not an image")

// EnsureParentDir creates the directory that will hold path. Relative paths
// are resolved against the working directory. It returns the absolute path.
func EnsureParentDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", path, err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return abs, nil
}

// ReadImage reads at most maxSize bytes of an image file and sniffs its MIME
// type from the content.
func ReadImage(path string, maxSize int64) (mimeType string, data []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err = io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > maxSize {
		return "", nil, fmt.Errorf("%s: %w (limit %d bytes)", path, ErrTooLarge, maxSize)
	}

	mimeType = http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", nil, fmt.Errorf("%s is %s: %w", path, mimeType, ErrNotImage)
	}
	return mimeType, data, nil
}
