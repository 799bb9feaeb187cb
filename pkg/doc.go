// Package pkg provides the libraries behind rustprint, a scanner that
// recovers Rust toolchain provenance from compiled binaries.
//
// # Overview
//
// A Rust binary carries fragments of the build that produced it: registry
// paths of statically linked crates, source paths of the standard library
// and of the author's project, and the commit hash of the rustc that
// compiled it. The pkg directory is organized as:
//
//  1. [scan] - Byte-level extraction and classification (no I/O, no logging)
//  2. [versions] - The rustc commit-hash to release table and its refresher
//  3. [pipeline] - Cached, persisted analysis shared by the CLI and the API
//  4. [store] - Report persistence (files or MongoDB)
//  5. [cache] - Byte caches (files, Redis) and key derivation
//  6. [integrations] - HTTP clients for external APIs (GitHub)
//  7. [api] - The HTTP API served by "rustprint serve"
//
// # Data Flow
//
//	binary bytes
//	     ↓
//	[pipeline].Runner (sha256, cache lookup)
//	     ↓
//	[scan].Analyze (crates ∥ paths → classify → toolchain hash)
//	     ↓
//	[versions].Table lookup
//	     ↓
//	[pipeline].Report → JSON / [store]
//
// # Quick Start
//
//	table := versions.LoadOrWarn(versions.DefaultFile, nil)
//	result, err := scan.AnalyzeFile("target/release/app", table)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
//
// [scan]: github.com/matzehuels/rustprint/pkg/scan
// [versions]: github.com/matzehuels/rustprint/pkg/versions
// [pipeline]: github.com/matzehuels/rustprint/pkg/pipeline
// [store]: github.com/matzehuels/rustprint/pkg/store
// [cache]: github.com/matzehuels/rustprint/pkg/cache
// [integrations]: github.com/matzehuels/rustprint/pkg/integrations
// [api]: github.com/matzehuels/rustprint/pkg/api
package pkg
