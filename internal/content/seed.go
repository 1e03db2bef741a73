// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package content

import (
	"context"
	"fmt"
	"time"

	"github.com/joacoabe/impa-org/internal/logging"
)

// floatPtr and intPtr keep the fixture tables readable.
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

// seedPages are the institutional pages created under the home page.
// Historia carries the timeline assembled from the institutional archive.
var seedPages = []InstitutionalPage{
	{
		Slug:  "historia",
		Title: "Historia",
		Body: "<h2>Nuestra Historia – Línea de Tiempo</h2>" +
			"<p>Misma raíz, casa propia. Compartimos la fe y doctrina con la IMPCH (Chile), " +
			"y en Argentina hemos crecido con identidad y organización independiente.</p>" +
			"<h3>1909 – Raíz en Chile – Nace la IMPCH</h3>" +
			"<p>Avivamiento metodista pentecostal en Chile. Fundación de la Iglesia Metodista " +
			"Pentecostal de Chile (IMPCH): nuestra raíz doctrinal y espiritual.</p>" +
			"<h3>1960 – Inicio en Argentina – Envío misionero</h3>" +
			"<p>Obispo Manuel Umaña Salinas → Luis Álvarez Gutiérrez. El hermano Luis Álvarez " +
			"se radica en Buenos Aires para iniciar la obra metodista pentecostal en la " +
			"República Argentina.</p>" +
			"<h3>Década del 60 – Expansión al Sur Argentino</h3>" +
			"<p>Pastor Marcelino Vera Cárcamo. Desde el sur de Chile se extiende la obra hacia " +
			"la Patagonia argentina, consolidando nuevas congregaciones.</p>" +
			"<h3>1995 – Sucesión episcopal</h3>" +
			"<p>Rev. Claudio Vera Navarrete, San Carlos de Bariloche. Tras el fallecimiento del " +
			"Obispo Luis Álvarez Gutiérrez, es elegido Obispo Presidente el Rev. Claudio Vera " +
			"Navarrete (1995–2003).</p>" +
			"<h3>2004 – Obispo Germán Ojeda Arteaga</h3>" +
			"<p>Ciudad de Neuquén – Barrio Confluencia. Continuidad de la organización nacional " +
			"y fortalecimiento institucional en todo el territorio argentino.</p>" +
			"<h3>2025 – Obispo Gustavo Mardones Zapata</h3>" +
			"<p>Las Heras, Provincia de Santa Cruz. Elegido en abril de 2025 como Obispo " +
			"Presidente de la IMPA.</p>" +
			"<h3>Hoy</h3>" +
			"<p>+100 pastores, ~120 iglesias. Identidad nacional y reconocimiento legal: " +
			"Fichero Nacional de Culto Nº 397 – Personería Jurídica 0509. Misión: predicar " +
			"a Cristo, discipular y servir a la Nación.</p>" +
			"<p><strong>Nota:</strong> Esta cronología se elabora con memoria institucional y " +
			"documentación en proceso de digitalización. Las fechas y actos formales podrán " +
			"ampliarse con actas, resoluciones y registros históricos.</p>",
	},
	{
		Slug:  "vision",
		Title: "Visión",
		Body:  "<p>Predicar a Cristo, discipular y servir a la Nación.</p>",
	},
	{
		Slug:  "doctrina",
		Title: "Doctrina",
		Body: "<p>Compartimos la fe y doctrina metodista pentecostal con la IMPCH (Chile), " +
			"con identidad y organización propia en la República Argentina.</p>",
	},
	{
		Slug:  "autoridades",
		Title: "Autoridades",
		Body:  "<p>Obispos presidentes de la IMPA desde el inicio de la obra en Argentina.</p>",
	},
}

// seedAuthorities lists the national bishops, current first (order 0).
var seedAuthorities = []Authority{
	{
		Name:        "Gustavo Mardones Zapata",
		Period:      "2025 – actualidad",
		Description: "Obispo Presidente de la IMPA. Las Heras, Provincia de Santa Cruz. Elegido en abril de 2025.",
		Order:       0,
	},
	{
		Name:        "Germán Ojeda Arteaga",
		Period:      "2004 – 2025",
		Description: "Obispo Presidente. Ciudad de Neuquén – Barrio Confluencia. Continuidad de la organización nacional y fortalecimiento institucional.",
		Order:       1,
	},
	{
		Name:        "Claudio Vera Navarrete",
		Period:      "1995 – 2003",
		Description: "Obispo Presidente. Rev. Claudio Vera Navarrete, San Carlos de Bariloche. Elegido tras el fallecimiento del Obispo Luis Álvarez Gutiérrez.",
		Order:       2,
	},
	{
		Name:        "Luis Álvarez Gutiérrez",
		Period:      "1960 – 1995",
		Description: "Inició la obra metodista pentecostal en la República Argentina. Enviado por el Obispo Manuel Umaña Salinas (IMPCH), se radicó en Buenos Aires.",
		Order:       3,
	},
}

// seedChurches is a small starter directory. The full directory comes
// from the intranet sync; these cover the historic congregations so a
// fresh install is not empty.
var seedChurches = []Church{
	{
		Slug:       "las-heras",
		Title:      "Iglesia Las Heras",
		Province:   "Santa Cruz",
		City:       "Las Heras",
		IntranetID: intPtr(1),
		PastorName: "Gustavo Mardones Zapata",
		Lat:        floatPtr(-46.5419),
		Lng:        floatPtr(-68.9357),
	},
	{
		Slug:       "neuquen-confluencia",
		Title:      "Iglesia Neuquén – Confluencia",
		Province:   "Neuquén",
		City:       "Neuquén",
		IntranetID: intPtr(2),
		Lat:        floatPtr(-38.9516),
		Lng:        floatPtr(-68.0591),
	},
	{
		Slug:       "san-carlos-de-bariloche",
		Title:      "Iglesia San Carlos de Bariloche",
		Province:   "Río Negro",
		City:       "San Carlos de Bariloche",
		IntranetID: intPtr(3),
		Lat:        floatPtr(-41.1335),
		Lng:        floatPtr(-71.3103),
	},
	{
		Slug:     "buenos-aires-central",
		Title:    "Iglesia Buenos Aires Central",
		Province: "Buenos Aires",
		City:     "Buenos Aires",
		Lat:      floatPtr(-34.6037),
		Lng:      floatPtr(-58.3816),
	},
}

// seedNews gives the news section an inaugural item.
var seedNews = []NewsItem{
	{
		Slug:   "bienvenidos-al-nuevo-sitio",
		Title:  "Bienvenidos al nuevo sitio de la IMPA",
		Date:   time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		Author: "Secretaría Nacional",
		Intro:  "Estrenamos el nuevo sitio institucional con el directorio de iglesias, noticias y recursos.",
		Body: "<p>La Iglesia Metodista Pentecostal Argentina estrena su nuevo sitio " +
			"institucional. Aquí encontrarán el directorio de iglesias con su ubicación, " +
			"las noticias de la obra nacional, recursos para descargar y las radios de la " +
			"congregación.</p>",
	},
}

// seedResources gives the resources section a starting entry.
var seedResources = []Resource{
	{
		Slug:        "reglamento-interno",
		Title:       "Reglamento Interno",
		Kind:        ResourceKindDocument,
		Description: "Reglamento interno de la IMPA. Fichero Nacional de Culto Nº 397.",
		FileURL:     "https://imparg.org/media/documentos/reglamento-interno.pdf",
	},
}

// Seed loads the fixture content into an empty store. It is idempotent
// at the store level: if any church already exists, nothing is written.
// Returns the number of entities created.
func (s *Store) Seed(ctx context.Context) (int, error) {
	count, err := s.CountChurches(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logging.Info().Int("churches", count).Msg("Seed skipped, store is not empty")
		return 0, nil
	}

	created := 0

	for i := range seedPages {
		if err := s.PutPage(ctx, &seedPages[i]); err != nil {
			return created, fmt.Errorf("seed page %s: %w", seedPages[i].Slug, err)
		}
		created++
	}

	for i := range seedAuthorities {
		if err := s.PutAuthority(ctx, &seedAuthorities[i]); err != nil {
			return created, fmt.Errorf("seed authority %s: %w", seedAuthorities[i].Name, err)
		}
		created++
	}

	for i := range seedChurches {
		church := seedChurches[i]
		if err := s.PutChurch(ctx, &church); err != nil {
			return created, fmt.Errorf("seed church %s: %w", church.Slug, err)
		}
		created++
	}

	for i := range seedNews {
		if err := s.PutNews(ctx, &seedNews[i]); err != nil {
			return created, fmt.Errorf("seed news %s: %w", seedNews[i].Slug, err)
		}
		created++
	}

	for i := range seedResources {
		if err := s.PutResource(ctx, &seedResources[i]); err != nil {
			return created, fmt.Errorf("seed resource %s: %w", seedResources[i].Slug, err)
		}
		created++
	}

	logging.Info().Int("created", created).Msg("Seeded fixture content")
	return created, nil
}
