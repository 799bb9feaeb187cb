// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// The client lists repository tags, which is how the rustc commit-hash to
// release table is rebuilt: every tag of rust-lang/rust names a release and
// points at the commit the compiler was built from.
//
// # Usage
//
//	client := github.NewClient(backend, os.Getenv("GITHUB_TOKEN"), cache.TTLHTTP)
//	tags, err := client.AllTags(ctx, "rust-lang", "rust", false)
//	if err != nil {
//	    return err
//	}
//	for _, t := range tags {
//	    fmt.Println(t.Commit.SHA, t.Name)
//	}
//
// # Pagination
//
// [Client.AllTags] requests pages of [MaxPerPage] tags starting at page 1
// and stops at the first empty page. A failing page aborts the whole walk.
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour. 403 and 429 responses are
// reported as RATE_LIMITED errors.
//
// # Caching
//
// Each page is cached under "tags:<owner>/<repo>:<page>" in the "github"
// namespace of the cache keyer. Pass refresh=true to bypass the cache.
package github
