package importer

import (
	"github.com/hauke96/sigolo/v2"

	"os"
)

// Exists is the cache gate: an output counts as done as soon as something is at
// its path. Contents are never validated; delete the file to force a refetch.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func skip(path string) bool {
	if !Exists(path) {
		return false
	}
	sigolo.Infof("- %s already exists", path)
	return true
}
