package acquire

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/mholt/archiver/v3"
	"github.com/pkg/errors"
)

// ExtractNatives extracts a natives jar into dir. Entries starting with one of the
// exclude prefixes (and always META-INF/) are skipped. Existing files are overwritten.
func ExtractNatives(jar string, dir string, exclude []string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	exclude = append([]string{"META-INF/"}, exclude...)

	return archiver.NewZip().Walk(jar, func(f archiver.File) error {
		if f.IsDir() {
			return nil
		}
		name := f.Name()
		if header, ok := f.Header.(zip.FileHeader); ok {
			name = header.Name
		}
		for _, prefix := range exclude {
			if strings.HasPrefix(name, prefix) {
				return nil
			}
		}

		target := filepath.Join(dir, filepath.FromSlash(name))
		if !strings.HasPrefix(target, filepath.Clean(dir)+string(filepath.Separator)) {
			return errors.Errorf("illegal file path in %s: %s", jar, name)
		}
		if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
			return err
		}

		out, err := os.Create(target)
		if err != nil {
			return err
		}
		_, err = io.Copy(out, f)
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
		return err
	})
}
