// Package mermaid renders Mermaid diagram source to PNG images by driving
// the mermaid-cli binary (mmdc).
//
// The package does no diagram parsing or rasterization of its own. Every
// render shells out to mmdc, which must be installed separately:
//
//	npm install -g @mermaid-js/mermaid-cli
//
// # Rendering Model
//
// mmdc is file based: it reads diagram source from an input file and writes
// the finished image to an output file. A Renderer therefore stages each
// request through the filesystem:
//
//  1. The diagram source is written to a uniquely named temporary .mmd file.
//  2. mmdc is invoked with -i <input>, -o <output>, -t <theme> and,
//     when requested, -b <background color>.
//  3. The temporary input file is removed, whether the run succeeded or not.
//
// RenderFile points the output at a caller-supplied directory and returns
// the absolute path. RenderImage points the output at a second temporary
// file, reads the bytes back, and removes it, so nothing the caller did not
// ask for is left on disk.
//
// # Outcome Classification
//
// A run succeeds only when mmdc exits zero AND the output file exists.
// Failures map to distinct error values so callers can tell an operator
// problem from a bad diagram:
//
//   - ErrMmdcNotFound: the binary is not installed or not on PATH.
//   - RenderError: mmdc ran and failed; carries the exit code and the
//     captured stdout/stderr for diagnosis.
//   - DestinationError: the requested output directory is missing or is
//     not a directory.
//
// mmdc routinely writes progress noise to stderr even on success. That
// output is logged as a warning, never treated as failure.
//
// # Timeouts
//
// Every invocation is bounded by the Renderer's timeout (default one
// minute) in addition to any deadline already on the caller's context, so
// a wedged headless browser inside mmdc cannot hold a request forever.
package mermaid
