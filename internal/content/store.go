// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package content

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Key prefixes per entity type. Slugs are unique within a type, so the
// full key is always prefix + slug (or prefix + id for messages).
const (
	churchKeyPrefix    = "church:"
	siteKeyPrefix      = "site:"
	newsKeyPrefix      = "news:"
	resourceKeyPrefix  = "resource:"
	contactKeyPrefix   = "contact:"
	pageKeyPrefix      = "page:"
	authorityKeyPrefix = "authority:"
)

// provinceUnknown is the label for churches with no province set. The
// grouped listing places it after every named province.
const provinceUnknown = "Sin provincia"

// ErrNotFound is returned when the requested entity does not exist.
var ErrNotFound = errors.New("content: not found")

// Store persists site content in BadgerDB.
type Store struct {
	db *badger.DB
}

// NewStore creates a content store on the provided BadgerDB instance.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// put JSON-encodes v and writes it under key.
func (s *Store) put(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get reads key and JSON-decodes it into out. Returns ErrNotFound when
// the key does not exist.
func (s *Store) get(key string, out interface{}) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	return nil
}

// delete removes key. Deleting a missing key is not an error.
func (s *Store) delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// scan iterates all values under prefix, calling fn with each raw value.
func (s *Store) scan(prefix string, fn func(val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}

// --- Churches ---

// PutChurch creates or updates a church record.
func (s *Store) PutChurch(_ context.Context, church *Church) error {
	if church.Slug == "" {
		return errors.New("content: church slug is required")
	}

	now := time.Now().UTC()
	if church.CreatedAt.IsZero() {
		church.CreatedAt = now
	}
	church.UpdatedAt = now

	return s.put(churchKeyPrefix+church.Slug, church)
}

// GetChurch returns the church with the given slug, or ErrNotFound.
func (s *Store) GetChurch(_ context.Context, slug string) (*Church, error) {
	var church Church
	if err := s.get(churchKeyPrefix+slug, &church); err != nil {
		return nil, err
	}
	return &church, nil
}

// DeleteChurch removes a church and its site page.
func (s *Store) DeleteChurch(_ context.Context, slug string) error {
	if err := s.delete(churchKeyPrefix + slug); err != nil {
		return err
	}
	return s.delete(siteKeyPrefix + slug)
}

// ListChurches returns all churches ordered by title.
func (s *Store) ListChurches(_ context.Context) ([]Church, error) {
	var churches []Church
	err := s.scan(churchKeyPrefix, func(val []byte) error {
		var church Church
		if err := json.Unmarshal(val, &church); err != nil {
			return err
		}
		churches = append(churches, church)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list churches: %w", err)
	}

	sort.Slice(churches, func(i, j int) bool {
		return churches[i].Title < churches[j].Title
	})
	return churches, nil
}

// ChurchesByProvince returns churches grouped by province. Provinces are
// ordered alphabetically; churches with no province come last under the
// "Sin provincia" label. Churches within a group are ordered by title.
func (s *Store) ChurchesByProvince(ctx context.Context) ([]ProvinceGroup, error) {
	churches, err := s.ListChurches(ctx)
	if err != nil {
		return nil, err
	}

	byProvince := make(map[string][]Church)
	for _, church := range churches {
		province := church.Province
		if province == "" {
			province = provinceUnknown
		}
		byProvince[province] = append(byProvince[province], church)
	}

	provinces := make([]string, 0, len(byProvince))
	for province := range byProvince {
		if province != provinceUnknown {
			provinces = append(provinces, province)
		}
	}
	sort.Strings(provinces)
	if _, ok := byProvince[provinceUnknown]; ok {
		provinces = append(provinces, provinceUnknown)
	}

	groups := make([]ProvinceGroup, 0, len(provinces))
	for _, province := range provinces {
		groups = append(groups, ProvinceGroup{
			Province: province,
			Churches: byProvince[province],
		})
	}
	return groups, nil
}

// MapPoints returns one point per church that has both coordinates.
func (s *Store) MapPoints(ctx context.Context) ([]MapPoint, error) {
	churches, err := s.ListChurches(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]MapPoint, 0, len(churches))
	for _, church := range churches {
		if !church.HasCoordinates() {
			continue
		}

		point := MapPoint{
			Slug:    church.Slug,
			Name:    church.Title,
			Lat:     *church.Lat,
			Lng:     *church.Lng,
			Address: church.Address,
			City:    church.City,
			URL:     "/iglesias/" + church.Slug,
		}
		if church.PublishPastor {
			point.Pastor = church.PastorName
		}
		points = append(points, point)
	}
	return points, nil
}

// --- Site pages ---

// PutSiteContent creates or updates a church's site page. Stamps
// UpdatedAt; UpdatedBy is the editor's username as provided by the caller.
func (s *Store) PutSiteContent(_ context.Context, site *SiteContent) error {
	if site.ChurchSlug == "" {
		return errors.New("content: site church slug is required")
	}
	site.UpdatedAt = time.Now().UTC()
	return s.put(siteKeyPrefix+site.ChurchSlug, site)
}

// GetSiteContent returns a church's site page, or ErrNotFound if it has
// never been saved.
func (s *Store) GetSiteContent(_ context.Context, churchSlug string) (*SiteContent, error) {
	var site SiteContent
	if err := s.get(siteKeyPrefix+churchSlug, &site); err != nil {
		return nil, err
	}
	return &site, nil
}

// --- News ---

// PutNews creates or updates a news item.
func (s *Store) PutNews(_ context.Context, item *NewsItem) error {
	if item.Slug == "" {
		return errors.New("content: news slug is required")
	}
	return s.put(newsKeyPrefix+item.Slug, item)
}

// GetNews returns the news item with the given slug, or ErrNotFound.
func (s *Store) GetNews(_ context.Context, slug string) (*NewsItem, error) {
	var item NewsItem
	if err := s.get(newsKeyPrefix+slug, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteNews removes a news item.
func (s *Store) DeleteNews(_ context.Context, slug string) error {
	return s.delete(newsKeyPrefix + slug)
}

// ListNews returns all news items ordered by date, newest first.
func (s *Store) ListNews(_ context.Context) ([]NewsItem, error) {
	var items []NewsItem
	err := s.scan(newsKeyPrefix, func(val []byte) error {
		var item NewsItem
		if err := json.Unmarshal(val, &item); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	return items, nil
}

// LatestNews returns at most n news items, newest first.
func (s *Store) LatestNews(ctx context.Context, n int) ([]NewsItem, error) {
	items, err := s.ListNews(ctx)
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	return items, nil
}

// --- Resources ---

// PutResource creates or updates a resource.
func (s *Store) PutResource(_ context.Context, res *Resource) error {
	if res.Slug == "" {
		return errors.New("content: resource slug is required")
	}
	return s.put(resourceKeyPrefix+res.Slug, res)
}

// GetResource returns the resource with the given slug, or ErrNotFound.
func (s *Store) GetResource(_ context.Context, slug string) (*Resource, error) {
	var res Resource
	if err := s.get(resourceKeyPrefix+slug, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListResources returns all resources ordered by title.
func (s *Store) ListResources(_ context.Context) ([]Resource, error) {
	var resources []Resource
	err := s.scan(resourceKeyPrefix, func(val []byte) error {
		var res Resource
		if err := json.Unmarshal(val, &res); err != nil {
			return err
		}
		resources = append(resources, res)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	sort.Slice(resources, func(i, j int) bool {
		return resources[i].Title < resources[j].Title
	})
	return resources, nil
}

// --- Institutional pages ---

// PutPage creates or updates an institutional page.
func (s *Store) PutPage(_ context.Context, page *InstitutionalPage) error {
	if page.Slug == "" {
		return errors.New("content: page slug is required")
	}
	return s.put(pageKeyPrefix+page.Slug, page)
}

// GetPage returns the institutional page with the given slug, or ErrNotFound.
func (s *Store) GetPage(_ context.Context, slug string) (*InstitutionalPage, error) {
	var page InstitutionalPage
	if err := s.get(pageKeyPrefix+slug, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListPages returns all institutional pages ordered by title.
func (s *Store) ListPages(_ context.Context) ([]InstitutionalPage, error) {
	var pages []InstitutionalPage
	err := s.scan(pageKeyPrefix, func(val []byte) error {
		var page InstitutionalPage
		if err := json.Unmarshal(val, &page); err != nil {
			return err
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Title < pages[j].Title
	})
	return pages, nil
}

// --- Authorities ---

// PutAuthority creates or updates an authority entry, keyed by name.
func (s *Store) PutAuthority(_ context.Context, auth *Authority) error {
	if auth.Name == "" {
		return errors.New("content: authority name is required")
	}
	return s.put(authorityKeyPrefix+auth.Name, auth)
}

// ListAuthorities returns authorities ordered by their display order,
// the current one (order 0) first.
func (s *Store) ListAuthorities(_ context.Context) ([]Authority, error) {
	var authorities []Authority
	err := s.scan(authorityKeyPrefix, func(val []byte) error {
		var auth Authority
		if err := json.Unmarshal(val, &auth); err != nil {
			return err
		}
		authorities = append(authorities, auth)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list authorities: %w", err)
	}

	sort.Slice(authorities, func(i, j int) bool {
		return authorities[i].Order < authorities[j].Order
	})
	return authorities, nil
}

// --- Contact messages ---

// SaveContactMessage persists a contact-form submission, assigning it an
// ID and received timestamp.
func (s *Store) SaveContactMessage(_ context.Context, msg *ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now().UTC()
	}
	return s.put(contactKeyPrefix+msg.ID, msg)
}

// ListContactMessages returns all contact messages, newest first.
func (s *Store) ListContactMessages(_ context.Context) ([]ContactMessage, error) {
	var messages []ContactMessage
	err := s.scan(contactKeyPrefix, func(val []byte) error {
		var msg ContactMessage
		if err := json.Unmarshal(val, &msg); err != nil {
			return err
		}
		messages = append(messages, msg)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].ReceivedAt.After(messages[j].ReceivedAt)
	})
	return messages, nil
}

// CountChurches returns the number of stored churches. Used to decide
// whether seeding should run.
func (s *Store) CountChurches(_ context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(churchKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(churchKeyPrefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count churches: %w", err)
	}
	return count, nil
}
