// Package gunner fetches paginated JSON resources and extracts values from them.
//
// A Query names a resource, a projectile path selecting the values to extract and
// optional reloaders that pull the next page's query parameters out of the current page:
//
//	q, err := gunner.NewQuery(gunner.URL("https://api.reddit.com/user/unidan/comments.json")).
//		Projectile("data.children.*.data.subreddit").
//		Reload(map[string]string{"after": "data.after"}).
//		Limit(5).
//		Delay(100 * time.Millisecond).
//		Build()
//
// A Fetcher runs a query page by page, one request at a time, and returns the Session
// holding every page and projectile. Recoil walks back from a projectile to the records
// that contain it:
//
//	s, err := gunner.New(nil).Fire(ctx, q)
//	for _, post := range s.Recoil("golang") {
//		...
//	}
//
// Projectile paths are dotted ("data.children.*.data.title") where '*' selects every
// child. Reloader paths may also be RFC 9535 JSONPath expressions when they start
// with '$'.
package gunner
