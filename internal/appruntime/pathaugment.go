// pathaugment.go ports spec.md §6's environment-augmentation behavior: when
// the running executable sits in a standard package-installation layout, the
// NIBIRU_PLUGIN_PATH search list is extended with a sibling plugin directory
// pattern. PluginLoader.Load does not read NIBIRU_PLUGIN_PATH: it opens the
// module path exactly as given.
package appruntime

import (
	"os"
	"path/filepath"
)

// nativeMarkerFile is the Go analogue of the original's native-module-file
// check: its presence beside the executable signals a standard install
// layout worth augmenting.
const nativeMarkerFile = "nibiru_native"

// pluginPathEnv is the environment variable AugmentPluginPath augments, mirroring
// the "one for pure-source modules" variable from spec.md; there is no
// native/pure-source split for a .so-backed loader, so a single variable
// suffices.
const pluginPathEnv = "NIBIRU_PLUGIN_PATH"

// AugmentPluginPath prepends "<exeDir>/../plugins/?.so" to NIBIRU_PLUGIN_PATH
// when exePath's directory contains nativeMarkerFile, preserving any
// existing value. It is a no-op otherwise.
func AugmentPluginPath(exePath string) {
	dir := filepath.Dir(exePath)
	marker := filepath.Join(dir, nativeMarkerFile)
	if _, err := os.Stat(marker); err != nil {
		return
	}

	pattern := filepath.Join(dir, "..", "plugins", "?.so")
	existing := os.Getenv(pluginPathEnv)
	if existing == "" {
		os.Setenv(pluginPathEnv, pattern)
		return
	}
	os.Setenv(pluginPathEnv, pattern+string(os.PathListSeparator)+existing)
}
