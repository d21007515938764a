package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"trydeps/internal/scenario"
)

// readManifest loads a JSON manifest into a generic document so fields this
// tool does not model survive the rewrite untouched.
func readManifest(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

func writeManifest(path string, doc map[string]interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// applyDependencySet merges a scenario's versions into the manifest document.
// Plain constraints go into their group; resolutions are written to the given
// resolutions field and additionally override the constraint wherever the
// same name appears in a group.
func applyDependencySet(doc map[string]interface{}, set scenario.DependencySet, resolutionsField string) {
	mergeGroup(doc, "dependencies", set.Dependencies)
	mergeGroup(doc, "devDependencies", set.DevDependencies)

	if len(set.Resolutions) > 0 {
		mergeGroup(doc, resolutionsField, set.Resolutions)
		for _, group := range []string{"dependencies", "devDependencies"} {
			if m, ok := doc[group].(map[string]interface{}); ok {
				for name, version := range set.Resolutions {
					if _, declared := m[name]; declared {
						m[name] = version
					}
				}
			}
		}
	}
}

func mergeGroup(doc map[string]interface{}, group string, versions map[string]string) {
	if len(versions) == 0 {
		return
	}
	m, ok := doc[group].(map[string]interface{})
	if !ok {
		m = make(map[string]interface{})
		doc[group] = m
	}
	for name, version := range versions {
		m[name] = version
	}
}

// declaredNames returns every dependency name the set touches, sorted, so
// install-plan tables are deterministic.
func declaredNames(set scenario.DependencySet) []string {
	seen := make(map[string]bool)
	for name := range set.Dependencies {
		seen[name] = true
	}
	for name := range set.DevDependencies {
		seen[name] = true
	}
	for name := range set.Resolutions {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// backupFiles copies each existing file to <name>+BackupSuffix and returns a
// restore function. Files that do not exist are skipped on both sides.
func backupFiles(dir string, names []string) (restore func() error, err error) {
	var backed []string
	for _, name := range names {
		src := filepath.Join(dir, name)
		if _, statErr := os.Stat(src); statErr != nil {
			continue
		}
		if err := copyFile(src, src+BackupSuffix); err != nil {
			// Roll back partial backups before reporting.
			for _, b := range backed {
				_ = os.Remove(filepath.Join(dir, b+BackupSuffix))
			}
			return nil, fmt.Errorf("back up %s: %w", name, err)
		}
		backed = append(backed, name)
	}
	return func() error {
		return restoreBackups(dir, backed)
	}, nil
}

func restoreBackups(dir string, names []string) error {
	var firstErr error
	for _, name := range names {
		dst := filepath.Join(dir, name)
		src := dst + BackupSuffix
		if err := copyFile(src, dst); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("restore %s: %w", name, err)
			}
			continue
		}
		_ = os.Remove(src)
	}
	return firstErr
}

// RestoreLeftoverBackups restores any <file>+BackupSuffix files found in dir.
// Used by the reset command to recover after an interrupted run.
func RestoreLeftoverBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var restored []string
	var firstErr error
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(name, BackupSuffix) || name == BackupSuffix {
			continue
		}
		original := strings.TrimSuffix(name, BackupSuffix)
		if err := copyFile(filepath.Join(dir, name), filepath.Join(dir, original)); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		_ = os.Remove(filepath.Join(dir, name))
		restored = append(restored, original)
	}
	sort.Strings(restored)
	return restored, firstErr
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode().Perm())
}
