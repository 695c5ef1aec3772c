/*
Package executor is the networking collaborator: it turns a request from
the store into a types.Response.

# Request Types

HTTP Requests (executor.go):
  - Standard RESTful requests (GET, POST, PUT, DELETE, etc.)
  - Request body and header handling
  - Per-client timeout

WebSocket Requests (websocket.go):
  - Selected by a ws:// or wss:// URL
  - The request body, when present, is sent as one text message
  - The first message received becomes the response body

# Error Handling

Execute never returns an error. Anything that prevents a response from
being produced (malformed URL, refused connection, timeout, unreadable
body) is reported as a Response with Status types.StatusInternalError and
the error text in Body.

# Example Usage

	client := executor.New(30 * time.Second)

	resp := client.Execute(ctx, types.HttpRequest{
		Method: "POST",
		URL:    "https://api.example.com/users",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: `{"name": "John Doe"}`,
	})

	if resp.IsInternalError() {
		fmt.Println("request failed:", resp.Body)
	}

# Thread Safety

A Client is safe for concurrent use; submissions run on worker goroutines
and share one underlying http.Client.
*/
package executor
