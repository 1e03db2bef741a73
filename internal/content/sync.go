// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package content

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/joacoabe/impa-org/internal/logging"
)

// SyncRecord is one church row from the intranet's public churches API,
// already flattened by the caller.
type SyncRecord struct {
	IntranetID int
	Name       string
	Province   string
	Address    string
	City       string
	PastorText string
	Lat        *float64
	Lng        *float64
}

var (
	slugStripPattern    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugCollapsePattern = regexp.MustCompile(`[-\s]+`)
)

// accentFolder maps the Spanish accented letters that appear in church
// names to their ASCII forms, so slugs stay plain ASCII.
var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"à", "a", "è", "e", "ì", "i", "ò", "o", "ù", "u",
	"ä", "a", "ë", "e", "ï", "i", "ö", "o", "ü", "u",
	"ñ", "n", "ç", "c",
)

// Slugify turns a church name into a URL slug: lowercase ASCII with
// hyphens, "iglesia" when nothing survives the stripping.
func Slugify(name string) string {
	slug := accentFolder.Replace(strings.ToLower(strings.TrimSpace(name)))
	slug = slugStripPattern.ReplaceAllString(slug, "")
	slug = strings.Trim(slugCollapsePattern.ReplaceAllString(slug, "-"), "-")
	if slug == "" {
		return "iglesia"
	}
	return slug
}

// uniqueSlug returns base or base-N so the result is absent from taken.
func uniqueSlug(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// SyncChurches upserts the directory from the intranet's church list.
// Rows are matched by intranet ID: matches are updated in place (their
// slug and any locally-edited site page survive), the rest are created
// with a unique slug. Churches absent from the feed are left alone.
func (s *Store) SyncChurches(ctx context.Context, records []SyncRecord) (created, updated int, err error) {
	existing, err := s.ListChurches(ctx)
	if err != nil {
		return 0, 0, err
	}

	byIntranetID := make(map[int]*Church, len(existing))
	takenSlugs := make(map[string]bool, len(existing))
	for i := range existing {
		takenSlugs[existing[i].Slug] = true
		if existing[i].IntranetID != nil {
			byIntranetID[*existing[i].IntranetID] = &existing[i]
		}
	}

	for _, rec := range records {
		if rec.Name == "" {
			logging.Warn().Int("intranet_id", rec.IntranetID).Msg("Skipping church with empty name")
			continue
		}

		if church, ok := byIntranetID[rec.IntranetID]; ok {
			church.Title = rec.Name
			church.Province = rec.Province
			church.Address = rec.Address
			church.City = rec.City
			church.PastorName = rec.PastorText
			if rec.Lat != nil && rec.Lng != nil {
				church.Lat = rec.Lat
				church.Lng = rec.Lng
			}
			if err := s.PutChurch(ctx, church); err != nil {
				return created, updated, fmt.Errorf("sync update %s: %w", church.Slug, err)
			}
			updated++
			continue
		}

		id := rec.IntranetID
		church := &Church{
			Slug:       uniqueSlug(Slugify(rec.Name), takenSlugs),
			Title:      rec.Name,
			Province:   rec.Province,
			Address:    rec.Address,
			City:       rec.City,
			PastorName: rec.PastorText,
			IntranetID: &id,
			Lat:        rec.Lat,
			Lng:        rec.Lng,
		}
		if err := s.PutChurch(ctx, church); err != nil {
			return created, updated, fmt.Errorf("sync create %s: %w", church.Slug, err)
		}
		takenSlugs[church.Slug] = true
		created++
	}

	logging.Info().Int("created", created).Int("updated", updated).Msg("Church directory synced from intranet")
	return created, updated, nil
}
