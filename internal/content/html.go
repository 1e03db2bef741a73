// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package content

import "regexp"

// imgTagPattern matches the opening of an <img> tag. The editor emits
// lowercase tags but pasted content may not, so matching is
// case-insensitive. The word boundary keeps <imgINvalid> from counting.
var imgTagPattern = regexp.MustCompile(`(?i)<img\b`)

// CountEmbeddedImages returns how many <img> tags the HTML body embeds.
// The editing workflow enforces a per-page cap on this count before
// accepting a save.
func CountEmbeddedImages(body string) int {
	return len(imgTagPattern.FindAllStringIndex(body, -1))
}
