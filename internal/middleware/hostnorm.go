// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package middleware

import (
	"net/http"
	"strings"
)

// HostNormalizer fixes two proxy misbehaviors seen in front of the site:
//
//   - the proxy sometimes forwards a duplicated Host or X-Forwarded-Proto
//     value ("example.org,example.org"), which downstream URL building
//     chokes on; only the first value is kept;
//   - canonical hosts are always served over TLS, but the proxy does not
//     always forward X-Forwarded-Proto (or forwards "http"), which makes
//     absolute URLs come out as http:// and trips browser Mixed Content
//     blocking; for those hosts the proto is forced to https.
func HostNormalizer(canonicalHosts []string) func(http.Handler) http.Handler {
	canonical := make(map[string]struct{}, len(canonicalHosts))
	for _, h := range canonicalHosts {
		canonical[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := r.Host
			if strings.Contains(host, ",") {
				host = strings.TrimSpace(strings.SplitN(host, ",", 2)[0])
				r.Host = host
			}

			if proto := r.Header.Get("X-Forwarded-Proto"); strings.Contains(proto, ",") {
				r.Header.Set("X-Forwarded-Proto", strings.TrimSpace(strings.SplitN(proto, ",", 2)[0]))
			}

			hostClean := strings.ToLower(host)
			if i := strings.IndexByte(hostClean, ':'); i >= 0 {
				hostClean = hostClean[:i]
			}
			if _, ok := canonical[hostClean]; ok {
				r.Header.Set("X-Forwarded-Proto", "https")
			}

			next.ServeHTTP(w, r)
		})
	}
}
