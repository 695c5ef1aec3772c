/*
Package types defines the request and response values shared by the
store, the networking client, persistence and the UI.

# Request Types

HttpRequest:
  - Stable ID (a UUID) used to key responses
  - Method, URL, headers, body
  - Optional JMESPath filter applied to the response body for display

# Response Types

Response:
  - Status code, response time in milliseconds, headers, body
  - Status 77 (StatusInternalError) marks a local failure such as a
    refused connection or a malformed URL; Body then holds the error text

# Persistence

RequestFile is the YAML document written by the save command:

	version: "1"
	requests:
	  - id: 3f1c...
	    name: List users
	    method: GET
	    url: https://api.example.com/users
	    headers:
	      Accept: application/json

# Copy Semantics

Both HttpRequest and Response contain maps. Use Clone whenever a value
crosses from the application state into a snapshot or a worker goroutine.
*/
package types
