// Package handler describes the single-use expectations a stub server consumes.
//
// A Handler pairs request criteria with a canned response. Build one with the
// fluent Builder:
//
//	h := handler.New("/users").
//	    WithMethod(http.MethodPost).
//	    WithRequestHeader("Authorization", "Bearer token").
//	    WithStatus(http.StatusCreated).
//	    WithJSON(map[string]string{"id": "42"}).
//	    MustBuild()
//
// When a request is evaluated the path, method and required headers must all
// match exactly. A match returns the configured response. Anything else
// returns the same empty 500 response, whatever the reason, so a test author
// only ever sees "500" for a request that was not expected.
//
// Builder defaults: method GET, no required headers, status 500, no response
// headers, empty body.
package handler
