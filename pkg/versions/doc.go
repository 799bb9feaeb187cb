// Package versions maintains the rustc commit-hash to release-tag table.
//
// A [Table] maps the 40-character commit hash a compiler was built from to
// the tag that names it ("1.69.0", "1.70.0-beta.1", ...). Tables are stored
// as pretty-printed JSON objects, conventionally in [DefaultFile]:
//
//	{
//	  "84c898d65adf2f39a5a98507f1fe0ce10a2b8dbc": "1.69.0"
//	}
//
// The table path is always passed in explicitly; nothing in this package
// reads a global location.
//
// [Refresher] rebuilds the table from a tag listing, normally the GitHub
// tags of rust-lang/rust, and writes it with [Save]. Scanning code uses
// [LoadOrWarn], which degrades to a nil table so analysis still runs
// without version labels.
package versions
