// Package client provides a small, method-oriented HTTP client built on
// [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithBaseAddress("https://api.example.com/"),
//		client.WithUserAgent("myapp/1.0"),
//	)
//
// Every request carries a copy of [Client.DefaultRequestHeaders], seeded
// with "Content-Type: application/json; charset=UTF-8".
//
// # Making Requests
//
// Relative URIs are resolved against the base address; absolute http(s)
// URIs are used as given:
//
//	resp, err := c.Get(ctx, "posts/10")
//	if err != nil { ... }
//	defer resp.Close()
//
//	if err := resp.EnsureSuccessStatusCode(); err != nil { ... }
//
//	var post struct{ ID int `json:"id"` }
//	err = resp.Content().ReadAs(ctx, &post)
//
// Non-string bodies passed to [Client.Post], [Client.Put] and
// [Client.Patch] are encoded as JSON.
//
// # Reading Content
//
// A response status in [200, 400) counts as success, redirects included.
// Content of any other status cannot be read and fails with [ErrRead].
// The body drains once; a second read fails with [ErrContentConsumed].
//
// # Async Requests
//
// Each method has an *Async form returning a [Pending]:
//
//	p := c.GetAsync(ctx, "posts/10")
//	// ... do other work ...
//	resp, err := p.Wait()
package client
