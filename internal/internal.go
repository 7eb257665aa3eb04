// SPDX-FileCopyrightText: 2025 M. Shulhan <ms@kilabit.info>
// SPDX-License-Identifier: GPL-3.0-only

package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DebugDir is the directory where raw warning pages are saved.
// This variable defined here so the test file can override it.
var DebugDir = `.`

// SaveDebugPage write the raw warning page whose destination could not be
// extracted, for offline inspection.
func SaveDebugPage(body []byte) (pathFile string, err error) {
	var logp = `SaveDebugPage`

	var name = fmt.Sprintf(`debug_html_%d.html`, time.Now().UnixNano())
	pathFile = filepath.Join(DebugDir, name)

	err = os.WriteFile(pathFile, body, 0600)
	if err != nil {
		return ``, fmt.Errorf(`%s: %w`, logp, err)
	}
	return pathFile, nil
}
