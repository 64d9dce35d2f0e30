// Package fileutil discovers candidate files in a directory and applies ignore rules.
//
// # Purpose
//
// The fileutil package is the single place that decides which directory entries
// enter the organizing pipeline:
//   - Directory scanning with optional recursion and depth limits
//   - Ignore rules (exact names, filepath.Match globs, dotfiles)
//   - Error-tolerant scanning that collects non-fatal errors
//
// # Main Components
//
// IgnoreRules - compiled ignore configuration:
//   - Names: exact base names (".DS_Store", "node_modules", ...)
//   - Globs: base name patterns ("*.tmp", "~$*", ...)
//   - Hidden: skip every entry whose name starts with "."
//
// ScanOptions - configuration for ScanDirectory:
//   - Ignore: rules applied to files and directories
//   - Recursive: enable subdirectory traversal (tidyspace only scans the top level)
//   - MaxDepth: limit recursion depth (0 = unlimited)
//
// ScanResult - result of a scan:
//   - Files: absolute paths of all regular files, sorted
//   - Ignored: number of entries skipped by ignore rules
//   - Errors: non-fatal errors encountered during the scan
//
// # Usage
//
//	rules := fileutil.NewIgnoreRules(cfg.Ignore)
//	result, err := fileutil.ScanDirectory("/home/me/Downloads", fileutil.ScanOptions{
//	    Ignore: rules,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, path := range result.Files {
//	    fmt.Println(path)
//	}
//
// Ignore checks are also used directly by the organizer before probing a path
// delivered by the watcher:
//
//	if rules.Match(path) {
//	    return nil // silently skipped
//	}
//
// # Design Principles
//
// Sorted output keeps runs deterministic. Entries that are not regular files
// (directories, devices, sockets) never appear in Files; symlinks are returned
// and left to the prober to accept or reject.
package fileutil
