package downloadmgr

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Verify checks that the file at path exists and matches the size and sha1 (both optional)
func Verify(path string, size int64, sha1sum string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	if size > 0 && info.Size() != size {
		return &ErrInvalidSize{FileName: path, Expected: size, Actual: info.Size()}
	}

	if sha1sum != "" {
		actual, err := FileSha1(path)
		if err != nil {
			return err
		}
		if !strings.EqualFold(actual, sha1sum) {
			return &ErrInvalidSha{FileName: path, ExpectedSha: sha1sum, ActualSha: actual}
		}
	}
	return nil
}

// FileSha1 returns the hex encoded sha1 sum of a file
func FileSha1(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	hasher := sha1.New()
	// probably io error during hashing
	if _, err := io.Copy(hasher, src); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
