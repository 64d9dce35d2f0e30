package fileutil

import (
	"path/filepath"
	"strings"
)

// CompoundExtensions are multi-part extensions kept whole when splitting names.
var CompoundExtensions = []string{".tar.gz", ".tar.bz2", ".tar.xz", ".tar.zst"}

// SplitExt splits a file name into stem and extension, keeping compound
// extensions such as ".tar.gz" intact. Case is preserved.
// A leading dot alone (".bashrc") is not an extension.
func SplitExt(name string) (stem, ext string) {
	lower := strings.ToLower(name)
	for _, compound := range CompoundExtensions {
		if strings.HasSuffix(lower, compound) && len(name) > len(compound) {
			cut := len(name) - len(compound)
			return name[:cut], name[cut:]
		}
	}

	ext = filepath.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}
