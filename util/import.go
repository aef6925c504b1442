/*
 * NS
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ImportLocator implementations
// =============================

/*
MemoryImportLocator holds a given set of modules in memory, keyed by
bare module name (no ".ns" suffix), and serves them as imports. Used
by tests that don't want to touch disk.
*/
type MemoryImportLocator struct {
	Files map[string]string
}

/*
Resolve returns the source text registered under name.
*/
func (il *MemoryImportLocator) Resolve(name string) (string, error) {
	res, ok := il.Files[name]
	if !ok {
		return "", fmt.Errorf("could not find import: %v", name)
	}
	return res, nil
}

/*
FileImportLocator resolves `import NAME;` to `<Root>/NAME.ns` on disk,
refusing to resolve outside of Root.
*/
type FileImportLocator struct {
	Root string
}

/*
Resolve reads <Root>/name.ns.
*/
func (il *FileImportLocator) Resolve(name string) (string, error) {
	importPath := filepath.Clean(filepath.Join(il.Root, name+".ns"))

	ok, err := isSubpath(il.Root, importPath)
	if err == nil && !ok {
		err = fmt.Errorf("import %q resolves outside of the import root", name)
	}

	if err != nil {
		return "", err
	}

	b, err := os.ReadFile(importPath)
	if err != nil {
		return "", fmt.Errorf("could not import %q: %v", name, err)
	}
	return string(b), nil
}

/*
isSubpath checks if the given sub path is a child path of root.
*/
func isSubpath(root, sub string) (bool, error) {
	rel, err := filepath.Rel(root, sub)
	return err == nil &&
		!strings.HasPrefix(rel, fmt.Sprintf("..%v", string(os.PathSeparator))) &&
		rel != "..", err
}
