/*
Package ksef is the entry point for the KSeF client library.

It wires the REST transport, the authentication coordinator and the
session client together from one configuration, so a caller can go from
credentials to submitted invoices without assembling the lower-level
packages by hand:

	client, err := ksef.NewClient(&ksef.ClientConfig{
		Environment: ksef.EnvironmentTest,
	})
	if err != nil {
		log.Fatal(err)
	}

	pair, err := client.Auth.AuthenticateWithToken(ctx, auth.TokenCredentials{...})
	if err != nil {
		log.Fatal(err)
	}
	sessions := client.Session(pair.AccessToken.Value)

The lower-level packages remain usable on their own; this package only
composes them.
*/
package ksef
