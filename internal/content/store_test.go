// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Helper function to create an in-memory BadgerDB-backed store
func createTestStore(t *testing.T) *Store {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // Disable logging for tests
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("Failed to open BadgerDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewStore(db)
}

func TestStore_ChurchRoundTrip(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	id := 7
	lat, lng := -34.6037, -58.3816
	church := &Church{
		Slug:       "almagro",
		Title:      "Iglesia Almagro",
		Province:   "Buenos Aires",
		City:       "Buenos Aires",
		IntranetID: &id,
		PastorName: "Juan Dominguez",
		Lat:        &lat,
		Lng:        &lng,
	}

	if err := store.PutChurch(ctx, church); err != nil {
		t.Fatalf("PutChurch failed: %v", err)
	}
	if church.CreatedAt.IsZero() || church.UpdatedAt.IsZero() {
		t.Error("PutChurch should stamp CreatedAt and UpdatedAt")
	}

	got, err := store.GetChurch(ctx, "almagro")
	if err != nil {
		t.Fatalf("GetChurch failed: %v", err)
	}
	if got.Title != "Iglesia Almagro" {
		t.Errorf("Title = %q, want %q", got.Title, "Iglesia Almagro")
	}
	if got.IntranetID == nil || *got.IntranetID != 7 {
		t.Errorf("IntranetID = %v, want 7", got.IntranetID)
	}
	if !got.HasCoordinates() {
		t.Error("HasCoordinates() = false, want true")
	}
}

func TestStore_GetChurch_NotFound(t *testing.T) {
	store := createTestStore(t)

	_, err := store.GetChurch(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetChurch(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_PutChurch_RequiresSlug(t *testing.T) {
	store := createTestStore(t)

	if err := store.PutChurch(context.Background(), &Church{Title: "Sin slug"}); err == nil {
		t.Error("PutChurch without slug should fail")
	}
}

func TestStore_DeleteChurch_RemovesSitePage(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	if err := store.PutChurch(ctx, &Church{Slug: "temporal", Title: "Temporal"}); err != nil {
		t.Fatalf("PutChurch failed: %v", err)
	}
	if err := store.PutSiteContent(ctx, &SiteContent{ChurchSlug: "temporal", Body: "<p>hola</p>"}); err != nil {
		t.Fatalf("PutSiteContent failed: %v", err)
	}

	if err := store.DeleteChurch(ctx, "temporal"); err != nil {
		t.Fatalf("DeleteChurch failed: %v", err)
	}

	if _, err := store.GetChurch(ctx, "temporal"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetChurch after delete error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetSiteContent(ctx, "temporal"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSiteContent after delete error = %v, want ErrNotFound", err)
	}
}

func TestStore_ChurchesByProvince(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	churches := []Church{
		{Slug: "neuquen", Title: "Iglesia Neuquén", Province: "Neuquén"},
		{Slug: "bariloche", Title: "Iglesia Bariloche", Province: "Río Negro"},
		{Slug: "cipolletti", Title: "Iglesia Cipolletti", Province: "Río Negro"},
		{Slug: "sin-datos", Title: "Iglesia sin datos"},
	}
	for i := range churches {
		if err := store.PutChurch(ctx, &churches[i]); err != nil {
			t.Fatalf("PutChurch failed: %v", err)
		}
	}

	groups, err := store.ChurchesByProvince(ctx)
	if err != nil {
		t.Fatalf("ChurchesByProvince failed: %v", err)
	}

	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	// Named provinces alphabetical, unknown last.
	wantOrder := []string{"Neuquén", "Río Negro", "Sin provincia"}
	for i, want := range wantOrder {
		if groups[i].Province != want {
			t.Errorf("group[%d].Province = %q, want %q", i, groups[i].Province, want)
		}
	}

	if len(groups[1].Churches) != 2 {
		t.Errorf("Río Negro has %d churches, want 2", len(groups[1].Churches))
	}
	// Within a province, churches are ordered by title.
	if groups[1].Churches[0].Title != "Iglesia Bariloche" {
		t.Errorf("first church in Río Negro = %q, want Iglesia Bariloche", groups[1].Churches[0].Title)
	}
}

func TestStore_MapPoints_SkipsChurchesWithoutCoordinates(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	lat, lng := -41.1335, -71.3103
	located := Church{
		Slug: "bariloche", Title: "Iglesia Bariloche",
		Lat: &lat, Lng: &lng,
		PastorName: "Claudio Vera", PublishPastor: true,
	}
	unlocated := Church{Slug: "sin-mapa", Title: "Iglesia sin mapa"}
	hidden := Church{
		Slug: "neuquen", Title: "Iglesia Neuquén",
		Lat: &lat, Lng: &lng,
		PastorName: "German Ojeda", PublishPastor: false,
	}

	for _, church := range []Church{located, unlocated, hidden} {
		c := church
		if err := store.PutChurch(ctx, &c); err != nil {
			t.Fatalf("PutChurch failed: %v", err)
		}
	}

	points, err := store.MapPoints(ctx)
	if err != nil {
		t.Fatalf("MapPoints failed: %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}

	for _, point := range points {
		switch point.Slug {
		case "bariloche":
			if point.Pastor != "Claudio Vera" {
				t.Errorf("published pastor missing from point: %+v", point)
			}
			if point.URL != "/iglesias/bariloche" {
				t.Errorf("URL = %q, want /iglesias/bariloche", point.URL)
			}
		case "neuquen":
			if point.Pastor != "" {
				t.Errorf("unpublished pastor leaked into point: %+v", point)
			}
		default:
			t.Errorf("unexpected point %q", point.Slug)
		}
	}
}

func TestStore_SiteContentRoundTrip(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	site := &SiteContent{
		ChurchSlug: "almagro",
		Body:       "<p>Bienvenidos a la iglesia de Almagro.</p>",
		UpdatedBy:  "jdoe",
	}
	if err := store.PutSiteContent(ctx, site); err != nil {
		t.Fatalf("PutSiteContent failed: %v", err)
	}
	if site.UpdatedAt.IsZero() {
		t.Error("PutSiteContent should stamp UpdatedAt")
	}

	got, err := store.GetSiteContent(ctx, "almagro")
	if err != nil {
		t.Fatalf("GetSiteContent failed: %v", err)
	}
	if got.Body != site.Body || got.UpdatedBy != "jdoe" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestStore_NewsOrdering(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	items := []NewsItem{
		{Slug: "vieja", Title: "Noticia vieja", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Slug: "nueva", Title: "Noticia nueva", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Slug: "media", Title: "Noticia media", Date: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
	}
	for i := range items {
		if err := store.PutNews(ctx, &items[i]); err != nil {
			t.Fatalf("PutNews failed: %v", err)
		}
	}

	all, err := store.ListNews(ctx)
	if err != nil {
		t.Fatalf("ListNews failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d items, want 3", len(all))
	}
	if all[0].Slug != "nueva" || all[2].Slug != "vieja" {
		t.Errorf("news not ordered newest first: %v, %v, %v", all[0].Slug, all[1].Slug, all[2].Slug)
	}

	latest, err := store.LatestNews(ctx, 2)
	if err != nil {
		t.Fatalf("LatestNews failed: %v", err)
	}
	if len(latest) != 2 || latest[0].Slug != "nueva" {
		t.Errorf("LatestNews(2) = %+v", latest)
	}
}

func TestStore_Resources(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	res := &Resource{
		Slug:    "himnario",
		Title:   "Himnario",
		Kind:    ResourceKindDocument,
		FileURL: "https://imparg.org/media/himnario.pdf",
	}
	if err := store.PutResource(ctx, res); err != nil {
		t.Fatalf("PutResource failed: %v", err)
	}

	list, err := store.ListResources(ctx)
	if err != nil {
		t.Fatalf("ListResources failed: %v", err)
	}
	if len(list) != 1 || list[0].Slug != "himnario" {
		t.Errorf("ListResources = %+v", list)
	}
}

func TestStore_ContactMessages(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	msg := &ContactMessage{
		Name:    "María",
		Email:   "maria@example.com",
		Message: "Quisiera saber los horarios.",
	}
	if err := store.SaveContactMessage(ctx, msg); err != nil {
		t.Fatalf("SaveContactMessage failed: %v", err)
	}
	if msg.ID == "" {
		t.Error("SaveContactMessage should assign an ID")
	}
	if msg.ReceivedAt.IsZero() {
		t.Error("SaveContactMessage should stamp ReceivedAt")
	}

	messages, err := store.ListContactMessages(ctx)
	if err != nil {
		t.Fatalf("ListContactMessages failed: %v", err)
	}
	if len(messages) != 1 || messages[0].Name != "María" {
		t.Errorf("ListContactMessages = %+v", messages)
	}
}

func TestStore_AuthoritiesOrdered(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	authorities := []Authority{
		{Name: "Luis Álvarez Gutiérrez", Order: 3},
		{Name: "Gustavo Mardones Zapata", Order: 0},
		{Name: "Claudio Vera Navarrete", Order: 2},
	}
	for i := range authorities {
		if err := store.PutAuthority(ctx, &authorities[i]); err != nil {
			t.Fatalf("PutAuthority failed: %v", err)
		}
	}

	list, err := store.ListAuthorities(ctx)
	if err != nil {
		t.Fatalf("ListAuthorities failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d authorities, want 3", len(list))
	}
	if list[0].Name != "Gustavo Mardones Zapata" {
		t.Errorf("current authority should sort first, got %q", list[0].Name)
	}
}

func TestStore_Seed(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	created, err := store.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if created == 0 {
		t.Fatal("Seed created nothing on an empty store")
	}

	// Idempotent: a second run is a no-op.
	again, err := store.Seed(ctx)
	if err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}
	if again != 0 {
		t.Errorf("second Seed created %d entities, want 0", again)
	}

	page, err := store.GetPage(ctx, "historia")
	if err != nil {
		t.Fatalf("GetPage(historia) after seed failed: %v", err)
	}
	if page.Body == "" {
		t.Error("historia page should carry the timeline body")
	}

	groups, err := store.ChurchesByProvince(ctx)
	if err != nil {
		t.Fatalf("ChurchesByProvince after seed failed: %v", err)
	}
	if len(groups) == 0 {
		t.Error("seed should create churches")
	}
}
