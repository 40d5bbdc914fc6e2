// Package api provides the REST API of the hostnet "serve" command.
//
// The API exposes one manager.Manager: the settings it loaded from the system
// can be listed and edited, then applied back to the backend files.
//
// # Endpoints
//
//	GET  /api/v1/health             live interfaces and settings validity
//	GET  /api/v1/interfaces         all records in insertion order
//	GET  /api/v1/interfaces/{name}  one record
//	PUT  /api/v1/interfaces/{name}  replace the configurable fields of a record
//	POST /api/v1/reload             rebuild the settings from the system
//	POST /api/v1/apply              write the backend files and restart services
//	GET  /api/v1/status             platform, backend and service states
//
// # Response Format
//
// All successful responses wrap data in a "data" field:
//
//	{
//	  "data": { /* response payload */ }
//	}
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "not_found",
//	    "message": "Human-readable error message",
//	    "details": { /* optional context */ }
//	  }
//	}
//
// Requests are served one at a time against the manager.
package api
