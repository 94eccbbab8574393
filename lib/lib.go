package lib

import (
	"github.com/pkg/errors"

	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

func ReadJSONFile(fname string, x interface{}) error {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return errors.Wrapf(err, "reading %s", fname)
	}
	if err := json.Unmarshal(bytes, x); err != nil {
		return errors.Wrapf(err, "decoding %s", fname)
	}
	return nil
}

func WriteJSONFile(fname string, x interface{}) error {
	bytes, err := json.MarshalIndent(x, "", "  ")
	if err != nil {
		return err
	}
	return WriteFileAtomic(fname, bytes)
}

// WriteFileAtomic writes to a sibling temp file and renames it over fname, so
// readers never observe a half-written artifact.
func WriteFileAtomic(fname string, bytes []byte) error {
	f, err := os.CreateTemp(filepath.Dir(fname), "."+filepath.Base(fname)+".*")
	if err != nil {
		return errors.Wrapf(err, "writing %s", fname)
	}
	tmp := f.Name()
	if _, err := f.Write(bytes); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "writing %s", fname)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "writing %s", fname)
	}
	if err := os.Rename(tmp, fname); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "writing %s", fname)
	}
	return nil
}

func CopyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "copying %s", src)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "copying to %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrapf(err, "copying %s to %s", src, dst)
	}
	return out.Close()
}
