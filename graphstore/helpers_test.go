// SPDX-License-Identifier: MIT
package graphstore_test

import "os"

func writeGarbage(path string) error {
	return os.WriteFile(path, []byte("not a snapshot"), 0o644)
}
