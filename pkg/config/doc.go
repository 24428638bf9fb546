// Package config loads queuestub settings and handler scripts.
//
// Settings come from environment variables prefixed with QUEUESTUB_ and,
// optionally, a YAML/JSON config file. The one variable most callers care
// about is QUEUESTUB_HTTP_PORT: when set, a stub server binds that exact
// port instead of drawing one from the port pool. A value that is not a valid
// port makes loading fail; it is never ignored.
//
//	QUEUESTUB_HTTP_PORT=54321 go test ./... -p 1
//
// Handler scripts describe a queue of expectations for the serve command:
//
//	handlers:
//	  - path: /ok
//	    response:
//	      statusCode: 200
//	  - path: /bar
//	    method: POST
//	    requestHeaders:
//	      Authorization: Bearer token
//	    response:
//	      statusCode: 201
//	      headers:
//	        Content-Type: application/json
//	      body: '{"id": 1}'
//
// Scripts with a .json extension are decoded as JSON, everything else as YAML.
package config
