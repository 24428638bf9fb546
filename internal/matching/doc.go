// Package matching holds the request checks a handler runs before replying.
//
// Every check is exact: paths are compared as whole strings, methods are
// compared case-sensitively, and a required header must be present with
// exactly the configured value. There are no wildcards, patterns or scores.
// Header names follow HTTP rules and are compared case-insensitively; headers
// the caller did not ask for are never inspected.
package matching
