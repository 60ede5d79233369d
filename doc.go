// Package chatpipe bridges an editor chat surface to an external
// conversational CLI tool.
//
// A Pipeline serializes a conversation history into the on-disk input
// format the external tool expects, spawns the tool as a subprocess, and
// streams its incremental output back into a document buffer in real time:
// chunks are sanitized (terminal control sequences stripped, carriage
// returns dropped), optionally transformed per chunk, and inserted at a
// tracking marker so the response accumulates in order.
//
// # Basic Usage
//
//	pipe := chatpipe.New(frontend,
//	    chatpipe.WithLogger(slog.Default()),
//	)
//
//	token, err := pipe.Submit(ctx, chatpipe.Request{
//	    Prompt: []chatpipe.Message{
//	        {Role: chatpipe.RoleSystem, Content: "Be terse"},
//	        {Role: chatpipe.RoleUser, Content: "Hi"},
//	    },
//	    Buffer:   buf,
//	    Position: buf.Size(),
//	    OnDone: func(res chatpipe.Result) {
//	        // terminal outcome for this request
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Submit returns immediately; all results arrive through buffer mutation
// and the optional callbacks. One external process runs per request, and
// multiple requests may be in flight concurrently. Killing a process (via
// Abort or an external signal) surfaces as a failed Result; there is no
// retry and no resumption.
//
// # Collaborators
//
// The host editing surface is consumed through the Buffer, Marker and
// Frontend interfaces. Implementations must be safe for calls from the
// pipeline's delivery goroutines; the pipeline itself serializes all of its
// callbacks, so handlers never run in parallel. Handlers must be kept
// short and must not block.
//
// # Error Handling
//
// The module provides typed errors for the launch-time failure scenarios:
//
//	token, err := pipe.Submit(ctx, req)
//	if err != nil {
//	    if nfErr, ok := errors.AsType[*chatpipe.ToolNotFoundError](err); ok {
//	        log.Fatalf("chat CLI not installed, searched: %v", nfErr.SearchedPaths)
//	    }
//	    log.Fatal(err)
//	}
//
// Process failures after launch are reported through Result.Err as a
// *ProcessError carrying the raw terminal status string.
package chatpipe
