package schema

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed schemas/*.json
var embedded embed.FS

// Source yields the raw schema document for one entity type name.
type Source interface {
	Read(typeName string) ([]byte, error)
}

// DirSource reads one JSON document per type name from a directory.
type DirSource string

func (d DirSource) Read(typeName string) ([]byte, error) {
	return os.ReadFile(filepath.Join(string(d), typeName+".json"))
}

// FSSource reads schema documents from an fs.FS rooted at dir.
type FSSource struct {
	FS  fs.FS
	Dir string
}

func (s FSSource) Read(typeName string) ([]byte, error) {
	name := typeName + ".json"
	if s.Dir != "" {
		name = s.Dir + "/" + name
	}
	return fs.ReadFile(s.FS, name)
}

// DefaultSource returns the embedded schema set shipped with the binary.
func DefaultSource() Source {
	return FSSource{FS: embedded, Dir: "schemas"}
}
