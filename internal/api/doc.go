// Package api holds the HTTP handlers of the bookshelf service. Handlers
// decode and validate requests, call the services, and translate service
// errors into the {"errors":[...],"timestamp":...} envelope through
// HandleAPIError.
package api
