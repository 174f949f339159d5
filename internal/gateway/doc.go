/*
Package gateway posts building/floor queries to the Archibus gateway.

# Exchange

A Client holds the endpoint (azure_api_url) and sends one POST per
submission:

	client, err := gateway.NewClient(settings.APIURL, gateway.WithTimeout(settings.Timeout.Duration))
	resp, err := client.Send(ctx, payload)

Send returns a Response for every HTTP status, including 4xx and 5xx; turning
a status into a display result is left to the result package. Only transport
failures produce an error, always a *NetworkError.

# Headers

Every request carries:
  - Content-Type: application/json
  - Accept: application/json and text/plain, then anything
  - User-Agent: archibus-connect/<version>

# Timeouts and cancellation

There is no client-side timeout unless WithTimeout is given. Cancelling the
context aborts the request; the resulting NetworkError reports Cancelled().

# TLS

WithTLS adds a custom CA bundle, a client certificate for mTLS, or disables
verification for development gateways.
*/
package gateway
