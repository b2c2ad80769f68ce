package load

import (
	"path/filepath"
	"strings"
)

const (
	JSONFile       = ".json"
	EntitiesDir    = "entities/"
	ScenesDir      = "scenes/"
	SceneStacksDir = "scene_stacks/"
)

// Paths resolves asset ids and relative asset references against an asset root
type Paths struct {
	Root    string
	JSONDir string
}

// JSON builds root/json dir/joined parts + ".json"
// Parts are concatenated, so directory constants carry their own slash
// e.g. JSON(SceneStacksDir, "basic_test_scene_stack")
func (p Paths) JSON(parts ...string) string {
	return filepath.Join(p.Root, p.JSONDir, strings.Join(parts, "")+JSONFile)
}

// Resolve maps a path referenced from inside an asset file to a filesystem path
// Absolute paths pass through; relative paths are taken from the asset root
func (p Paths) Resolve(ref string) string {
	if filepath.IsAbs(ref) || p.Root == "" {
		return ref
	}
	return filepath.Join(p.Root, ref)
}

// ResolveAll resolves every reference, preserving order
func (p Paths) ResolveAll(refs []string) []string {
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = p.Resolve(ref)
	}
	return out
}
