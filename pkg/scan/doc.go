// Package scan extracts Rust toolchain provenance from the raw bytes of a
// compiled binary.
//
// # Overview
//
// Rust binaries leak build-environment details through embedded panic
// locations and debug paths. Scanning the whole file as one undifferentiated
// byte stream (no section parsing, no demangling) recovers:
//
//   - [Package]: crates statically linked from a cargo registry cache
//     (".cargo/registry/src/<index>-<hex>/<name>-<version>")
//   - Source paths ending in ".rs", partitioned by [Classify] into
//     framework paths (compiler, standard library, registry cache, build
//     containers) and user paths (the author's own project)
//   - The rustc commit hash embedded as "/rustc/<40 hex>/", resolved to a
//     release label through a [VersionTable]
//
// # Usage
//
//	data, err := os.ReadFile(path)
//	if err != nil {
//	    return err
//	}
//	result := scan.Analyze(data, table)
//	fmt.Println(result.Summary())
//
// [Analyze] never fails: undecodable matches are dropped, and a missing or
// incomplete table only leaves [Result.ToolchainVersion] nil. [AnalyzeFile]
// adds the file read and reports I/O failures as structured errors.
//
// # Concurrency
//
// The package extractor and the path scanner are independent scans of the
// same immutable buffer and run concurrently inside [Analyze]. All exported
// functions are safe for concurrent use.
package scan
