// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package api

import (
	"net/http"
	"time"

	"github.com/joacoabe/impa-org/internal/content"
)

// churchDetail is the public view of a church. Pastor contact details
// appear only when the church opted into publishing them.
type churchDetail struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Province    string     `json:"province,omitempty"`
	City        string     `json:"city,omitempty"`
	Address     string     `json:"address,omitempty"`
	Schedule    string     `json:"schedule,omitempty"`
	PastorName  string     `json:"pastor_name,omitempty"`
	PastorPhone string     `json:"pastor_phone,omitempty"`
	PastorEmail string     `json:"pastor_email,omitempty"`
	Facebook    string     `json:"facebook,omitempty"`
	Instagram   string     `json:"instagram,omitempty"`
	YouTube     string     `json:"youtube,omitempty"`
	MapURL      string     `json:"map_url,omitempty"`
	Lat         *float64   `json:"lat,omitempty"`
	Lng         *float64   `json:"lng,omitempty"`
	SiteURL     string     `json:"site_url"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func newChurchDetail(c *content.Church) churchDetail {
	d := churchDetail{
		Slug:      c.Slug,
		Title:     c.Title,
		Province:  c.Province,
		City:      c.City,
		Address:   c.Address,
		Schedule:  c.Schedule,
		Facebook:  c.Facebook,
		Instagram: c.Instagram,
		YouTube:   c.YouTube,
		MapURL:    c.MapURL,
		Lat:       c.Lat,
		Lng:       c.Lng,
		SiteURL:   "/iglesias/" + c.Slug + "/sitio",
	}
	if c.PublishPastor {
		d.PastorName = c.PastorName
		d.PastorPhone = c.PastorPhone
		d.PastorEmail = c.PastorEmail
	}
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		d.UpdatedAt = &t
	}
	return d
}

// provinceGroup mirrors content.ProvinceGroup with the public church view.
type provinceGroup struct {
	Province string         `json:"province"`
	Churches []churchDetail `json:"churches"`
}

// ChurchList handles GET /iglesias: the directory grouped by province,
// provinces alphabetical with the unassigned bucket last.
func (h *Handler) ChurchList(w http.ResponseWriter, r *http.Request) {
	groups, err := h.store.ChurchesByProvince(r.Context())
	if err != nil {
		NewResponseWriter(w, r).StorageError(err)
		return
	}

	out := make([]provinceGroup, 0, len(groups))
	for _, g := range groups {
		pg := provinceGroup{
			Province: g.Province,
			Churches: make([]churchDetail, 0, len(g.Churches)),
		}
		for i := range g.Churches {
			pg.Churches = append(pg.Churches, newChurchDetail(&g.Churches[i]))
		}
		out = append(out, pg)
	}
	WriteSuccess(w, r, out)
}

// ChurchMap handles GET /iglesias/mapa: every church with coordinates
// as a map point.
func (h *Handler) ChurchMap(w http.ResponseWriter, r *http.Request) {
	points, err := h.store.MapPoints(r.Context())
	if err != nil {
		NewResponseWriter(w, r).StorageError(err)
		return
	}
	WriteSuccess(w, r, points)
}

// ChurchDetail handles GET /iglesias/{slug}.
func (h *Handler) ChurchDetail(w http.ResponseWriter, r *http.Request) {
	church, ok := h.churchFromURL(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, r, newChurchDetail(church))
}
