// Package rest is the throwing facade over the httpclient engine: every call
// returns (T, error) and the error is always a *httpclient.TransportError.
//
//	c := rest.New(engine) // or rest.Default() for the shared engine
//
//	user, err := rest.GetJSON[User](ctx, c, "https://api.example.com/users/123")
//	if rest.IsNotFound(err) { ... }
//
//	created, err := rest.PostJSON[CreateUser, User](ctx, c, url, CreateUser{Name: "Alice"})
//
//	status, err := rest.DeleteStatus(ctx, c, url)
package rest
