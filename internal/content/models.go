// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

// Package content persists the site's managed entities: member churches,
// their editable site pages, news items, downloadable resources and
// contact-form messages. Storage is BadgerDB with JSON-encoded values.
package content

import (
	"time"
)

// Resource kinds accepted by the resources section.
const (
	ResourceKindDocument = "document"
	ResourceKindAudio    = "audio"
	ResourceKindVideo    = "video"
	ResourceKindLink     = "link"
)

// Church is a member church in the directory.
//
// IntranetID is the church's identifier in the external identity system.
// It is what a pastor's assigned church is matched against during
// authorization, and it is optional: churches not yet registered in the
// intranet have no ID and therefore no pastor-scoped editor.
type Church struct {
	Slug     string `json:"slug" validate:"required,slug"`
	Title    string `json:"title" validate:"required,max=200"`
	Province string `json:"province,omitempty"`
	City     string `json:"city,omitempty"`
	Address  string `json:"address,omitempty"`

	IntranetID *int `json:"intranet_id,omitempty"`

	Schedule string `json:"schedule,omitempty"`

	PastorName    string `json:"pastor_name,omitempty"`
	PastorPhone   string `json:"pastor_phone,omitempty"`
	PastorEmail   string `json:"pastor_email,omitempty" validate:"omitempty,email"`
	PublishPastor bool   `json:"publish_pastor"`

	Facebook  string `json:"facebook,omitempty" validate:"omitempty,url"`
	Instagram string `json:"instagram,omitempty" validate:"omitempty,url"`
	YouTube   string `json:"youtube,omitempty" validate:"omitempty,url"`
	MapURL    string `json:"map_url,omitempty" validate:"omitempty,url"`

	Lat *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasCoordinates reports whether the church can be placed on the map.
func (c *Church) HasCoordinates() bool {
	return c.Lat != nil && c.Lng != nil
}

// SiteContent is the single editable page each church gets. One record
// per church, created on first save.
type SiteContent struct {
	ChurchSlug string    `json:"church_slug"`
	Body       string    `json:"body"`
	UpdatedAt  time.Time `json:"updated_at"`
	UpdatedBy  string    `json:"updated_by,omitempty"`
}

// NewsItem is a dated article in the news section.
type NewsItem struct {
	Slug     string    `json:"slug" validate:"required,slug"`
	Title    string    `json:"title" validate:"required,max=200"`
	Date     time.Time `json:"date"`
	Author   string    `json:"author,omitempty"`
	Intro    string    `json:"intro,omitempty"`
	Body     string    `json:"body,omitempty"`
	ImageURL string    `json:"image_url,omitempty"`
}

// Resource is a downloadable or linked item in the resources section.
type Resource struct {
	Slug        string `json:"slug" validate:"required,slug"`
	Title       string `json:"title" validate:"required,max=200"`
	Kind        string `json:"kind" validate:"required,oneof=document audio video link"`
	Description string `json:"description,omitempty"`
	FileURL     string `json:"file_url" validate:"required,url"`
}

// InstitutionalPage is a fixed top-level page (history, vision,
// doctrine, authorities). These are seeded once and rarely change.
type InstitutionalPage struct {
	Slug  string `json:"slug" validate:"required,slug"`
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body,omitempty"`
}

// Authority is a listed national authority (bishop). Order 0 is the
// current one and sorts first.
type Authority struct {
	Name        string `json:"name" validate:"required,max=200"`
	Period      string `json:"period,omitempty"`
	Description string `json:"description,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Order       int    `json:"order"`
}

// ContactMessage is a submission from the public contact form.
type ContactMessage struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject,omitempty"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"received_at"`
}

// ProvinceGroup is one section of the province-grouped church listing.
type ProvinceGroup struct {
	Province string   `json:"province"`
	Churches []Church `json:"churches"`
}

// MapPoint is a church projected onto the directory map. Only churches
// with both coordinates become points.
type MapPoint struct {
	Slug    string  `json:"slug"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
	City    string  `json:"city,omitempty"`
	Pastor  string  `json:"pastor,omitempty"`
	URL     string  `json:"url"`
}
