// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod returns a MethodNotAllowed handler for router that answers
// 404 instead of 405 when the method is not registered for the path, so
// the webhook endpoint does not reveal itself to unsupported methods.
//
// Only exact route patterns are matched; parameterised segments are not
// expanded.
//
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var found chi.Route
		for _, route := range router.Routes() {
			if route.Pattern == r.URL.Path {
				found = route
				break
			}
		}

		if _, ok := found.Handlers[r.Method]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		router.ServeHTTP(w, r)
	}
}
